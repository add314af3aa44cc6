package device

import (
	"log"
	"time"

	"github.com/sweeney/truthsignal-device/internal/audio"
	"github.com/sweeney/truthsignal-device/internal/led"
	"github.com/sweeney/truthsignal-device/internal/logic"
)

// Alert sequence.
const (
	AlertFlashes      = 3
	AlertToneHz       = 1500
	AlertToneDuration = 200 * time.Millisecond
	AlertPause        = 150 * time.Millisecond
)

// Self-test sequence.
const (
	LEDTestStep      = 300 * time.Millisecond
	TestTones        = 3
	TestToneHz       = 400
	TestToneDuration = 200 * time.Millisecond
	TestTonePause    = 150 * time.Millisecond
)

// Player runs the blocking light and sound sequences.
type Player struct {
	strip led.Strip
	sink  audio.Sink
	sleep func(time.Duration)
}

// NewPlayer creates a Player. sleep is called for every pause in a sequence.
func NewPlayer(strip led.Strip, sink audio.Sink, sleep func(time.Duration)) *Player {
	return &Player{strip: strip, sink: sink, sleep: sleep}
}

// Alert flashes red with a beep three times.
func (p *Player) Alert() {
	log.Printf("ALERT TRIGGERED")
	for i := 0; i < AlertFlashes; i++ {
		p.fill(logic.ColorAlert)
		p.tone(AlertToneHz, AlertToneDuration)
		p.fill(logic.ColorOff)
		p.sleep(AlertPause)
	}
	log.Printf("Alert complete")
}

// LEDTest sweeps red, green and blue, then clears the light.
func (p *Player) LEDTest() {
	log.Printf("LED test: start")
	for _, h := range logic.SelfTestHues {
		p.fill(logic.HSV(h, 255, 255))
		p.sleep(LEDTestStep)
	}
	p.fill(logic.ColorOff)
	log.Printf("LED test: complete")
}

// ToneTest plays three short low beeps.
func (p *Player) ToneTest() {
	log.Printf("Tone test: start")
	for i := 0; i < TestTones; i++ {
		p.tone(TestToneHz, TestToneDuration)
		p.sleep(TestTonePause)
	}
	log.Printf("Tone test: complete")
}

func (p *Player) fill(c logic.Color) {
	if err := led.Fill(p.strip, c); err != nil {
		log.Printf("led error: %v", err)
	}
}

func (p *Player) tone(freq int, d time.Duration) {
	if err := audio.PlayTone(p.sink, freq, d); err != nil {
		log.Printf("tone %dHz/%v skipped: %v", freq, d, err)
	}
}
