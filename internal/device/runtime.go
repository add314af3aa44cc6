package device

import (
	"log"
	"math/rand"
	"time"

	"github.com/sweeney/truthsignal-device/internal/audio"
	"github.com/sweeney/truthsignal-device/internal/led"
	"github.com/sweeney/truthsignal-device/internal/logic"
	"github.com/sweeney/truthsignal-device/internal/metrics"
	"github.com/sweeney/truthsignal-device/internal/mqtt"
	"github.com/sweeney/truthsignal-device/internal/network"
	"github.com/sweeney/truthsignal-device/internal/status"
)

// Deps are the collaborators of a Runtime. Tracker and Metrics may be nil.
type Deps struct {
	Link    network.Link
	Broker  mqtt.Subscriber
	Strip   led.Strip
	Sink    audio.Sink
	Tracker *status.Tracker
	Metrics *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
	// Rand returns the client id suffix; defaults to a value in [0, 0xffff).
	Rand func() uint16
}

// Runtime owns all mutable device state. It is driven from a single goroutine:
// Start once, then Step on every loop iteration.
type Runtime struct {
	cfg Config

	link    network.Link
	broker  mqtt.Subscriber
	strip   led.Strip
	sink    audio.Sink
	tracker *status.Tracker
	metrics *metrics.Metrics
	player  *Player

	now   func() time.Time
	sleep func(time.Duration)
	rand  func() uint16

	supervisor *logic.Supervisor
	indicator  *logic.Indicator
	heartbeat  *logic.Heartbeat
	selfTest   logic.OneShot

	// last color written by the indicator; invalid after a sequence touched the light
	shown      logic.Color
	shownValid bool

	waitLogged bool
}

// New creates a Runtime. Nothing touches the hardware until Start.
func New(cfg Config, d Deps) *Runtime {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	if d.Rand == nil {
		d.Rand = func() uint16 { return uint16(rand.Intn(0xffff)) }
	}

	return &Runtime{
		cfg:        cfg,
		link:       d.Link,
		broker:     d.Broker,
		strip:      d.Strip,
		sink:       d.Sink,
		tracker:    d.Tracker,
		metrics:    d.Metrics,
		player:     NewPlayer(d.Strip, d.Sink, d.Sleep),
		now:        d.Now,
		sleep:      d.Sleep,
		rand:       d.Rand,
		supervisor: logic.NewSupervisor(cfg.RetryDelay, cfg.MaxRetries),
		indicator:  logic.NewIndicator(cfg.BlinkInterval),
		heartbeat:  logic.NewHeartbeat(cfg.HeartbeatInterval, d.Now()),
	}
}

// Start clears the light, joins the network and installs the message handler.
// A link that does not come up in time is not fatal; the loop keeps waiting.
func (r *Runtime) Start() {
	r.strip.SetBrightness(r.cfg.Brightness)
	r.setColor(logic.ColorOff)
	log.Printf("led initialized: brightness=%d", r.cfg.Brightness)

	log.Printf("starting network: ssid=%q", r.cfg.SSID)
	if err := r.link.Connect(r.cfg.SSID, r.cfg.Password); err != nil {
		log.Printf("network connect error: %v", err)
	}

	for i := 0; i < LinkWaitAttempts && !r.link.Connected(); i++ {
		r.sleep(LinkWaitInterval)
	}
	if r.link.Connected() {
		log.Printf("network connected, ip=%s", r.link.LocalAddress())
	} else {
		log.Printf("network not connected, will still attempt MQTT")
	}

	r.broker.SetMessageHandler(r.HandleMessage)
}

// Step runs one loop iteration at the given instant.
func (r *Runtime) Step(now time.Time) {
	networkUp := r.link.Connected()
	brokerUp := r.broker.IsConnected()
	state := logic.Derive(networkUp, brokerUp)

	r.updateIndicator(state, now)

	switch {
	case networkUp:
		r.waitLogged = false
	case !r.waitLogged:
		log.Printf("network down, waiting for link")
		r.waitLogged = true
	}

	switch r.supervisor.Next(brokerUp, now) {
	case logic.ActionConnect:
		r.connect(now)
	case logic.ActionRecoverNetwork:
		r.recoverNetwork()
	}

	r.broker.Poll()

	if r.heartbeat.Check(now) && r.broker.IsConnected() {
		log.Printf("device ok: mqtt connected")
	}

	r.report()
}

// HandleMessage interprets one notification. Verified notifications play the
// alert before returning.
func (r *Runtime) HandleMessage(topic string, payload []byte) {
	log.Printf("mqtt message received on %s: %s", topic, payload)

	verified := logic.IsVerified(payload)
	if r.tracker != nil {
		r.tracker.RecordMessage(verified, r.now())
	}
	if r.metrics != nil {
		r.metrics.RecordMessage(verified)
	}

	if !verified {
		log.Printf("payload not verified:true (ignoring)")
		return
	}

	log.Printf("payload indicates verified:true")
	r.player.Alert()
	r.shownValid = false
	if r.metrics != nil {
		r.metrics.AlertsTotal.Inc()
	}
}

// Shutdown turns the light off and releases the broker session and audio output.
func (r *Runtime) Shutdown() {
	r.setColor(logic.ColorOff)
	if err := r.broker.Close(); err != nil {
		log.Printf("mqtt close error: %v", err)
	}
	if err := r.sink.Close(); err != nil {
		log.Printf("audio close error: %v", err)
	}
}

// Supervisor exposes the connection supervisor for inspection.
func (r *Runtime) Supervisor() *logic.Supervisor {
	return r.supervisor
}

func (r *Runtime) updateIndicator(state logic.ConnectivityState, now time.Time) {
	c := r.indicator.Evaluate(state, now)
	if r.shownValid && c == r.shown {
		return
	}
	r.setColor(c)
}

func (r *Runtime) setColor(c logic.Color) {
	if err := led.Fill(r.strip, c); err != nil {
		log.Printf("led error: %v", err)
		r.shownValid = false
		return
	}
	r.shown = c
	r.shownValid = true
}

func (r *Runtime) connect(now time.Time) {
	id := logic.ClientID(r.cfg.ClientIDPrefix, r.rand())
	log.Printf("attempting mqtt connection as %s", id)

	if err := r.broker.Connect(id); err != nil {
		log.Printf("mqtt connect failed, rc=%d, try again in %v: %v", r.broker.State(), r.cfg.RetryDelay, err)
		if r.metrics != nil {
			r.metrics.ConnectFailuresTotal.Inc()
		}
		if r.supervisor.ConnectFailed(now) {
			log.Printf("too many MQTT tries, restarting WiFi")
		}
		return
	}

	r.supervisor.ConnectSucceeded()
	log.Printf("mqtt connected")
	if err := r.broker.Subscribe(r.cfg.Topic); err != nil {
		log.Printf("subscribe %s: %v", r.cfg.Topic, err)
	} else {
		log.Printf("subscribed to %s", r.cfg.Topic)
	}
	r.setColor(logic.ColorConnected)

	if r.selfTest.Claim() {
		r.sleep(SelfTestDelay)
		r.player.LEDTest()
		r.player.ToneTest()
		r.shownValid = false
		if r.tracker != nil {
			r.tracker.SetSelfTestDone()
		}
	}
}

func (r *Runtime) recoverNetwork() {
	if err := r.link.Disconnect(); err != nil {
		log.Printf("network disconnect error: %v", err)
	}
	if err := r.link.Reconnect(); err != nil {
		log.Printf("network reconnect error: %v", err)
	}
	r.supervisor.RecoveryDone()
	if r.metrics != nil {
		r.metrics.NetworkRecoveriesTotal.Inc()
	}
	log.Printf("network cycled (recoveries=%d)", r.supervisor.Recoveries())
}

func (r *Runtime) report() {
	networkUp := r.link.Connected()
	brokerUp := r.broker.IsConnected()
	state := logic.Derive(networkUp, brokerUp)

	if r.metrics != nil {
		r.metrics.SetState(state)
	}
	if r.tracker != nil {
		r.tracker.Update(status.Connectivity{
			State:         state,
			Phase:         r.supervisor.Phase(),
			Retries:       r.supervisor.Retries(),
			Recoveries:    r.supervisor.Recoveries(),
			MQTTConnected: brokerUp,
			MQTTState:     r.broker.State(),
			LocalAddr:     r.link.LocalAddress(),
		})
	}
}
