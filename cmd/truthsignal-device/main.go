// Command truthsignal-device keeps a broker subscription alive and plays a light and
// sound alert when a verified notification arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/truthsignal-device/internal/audio"
	"github.com/sweeney/truthsignal-device/internal/device"
	"github.com/sweeney/truthsignal-device/internal/led"
	"github.com/sweeney/truthsignal-device/internal/logic"
	"github.com/sweeney/truthsignal-device/internal/metrics"
	"github.com/sweeney/truthsignal-device/internal/mqtt"
	"github.com/sweeney/truthsignal-device/internal/network"
	"github.com/sweeney/truthsignal-device/internal/status"
	"github.com/sweeney/truthsignal-device/internal/web"
)

const defaultBroker = "tcp://54.36.178.49:1883"

type options struct {
	broker      string
	topic       string
	ssid        string
	password    string
	iface       string
	chip        string
	pinR        int
	pinG        int
	pinB        int
	commonAnode bool
	audioDevice string
	poll        time.Duration
	httpAddr    string
	printState  bool
}

func main() {
	defaults := device.DefaultConfig()

	var o options
	flag.StringVar(&o.broker, "broker", defaultBroker, "MQTT broker address")
	flag.StringVar(&o.topic, "topic", defaults.Topic, "Notification topic")
	flag.StringVar(&o.ssid, "ssid", defaults.SSID, "Wi-Fi network name")
	flag.StringVar(&o.password, "password", "", "Wi-Fi passphrase")
	flag.StringVar(&o.iface, "iface", network.DefaultInterface, "Wi-Fi interface")
	flag.StringVar(&o.chip, "chip", "gpiochip0", "GPIO chip for the status light")
	flag.IntVar(&o.pinR, "pin-r", led.DefaultPinR, "BCM pin number for the red channel")
	flag.IntVar(&o.pinG, "pin-g", led.DefaultPinG, "BCM pin number for the green channel")
	flag.IntVar(&o.pinB, "pin-b", led.DefaultPinB, "BCM pin number for the blue channel")
	flag.BoolVar(&o.commonAnode, "common-anode", false, "Drive a common-anode RGB LED (active low)")
	flag.StringVar(&o.audioDevice, "audio-device", "", `ALSA device for aplay ("" for default)`)
	flag.DurationVar(&o.poll, "poll", 20*time.Millisecond, "Loop iteration interval")
	flag.StringVar(&o.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.BoolVar(&o.printState, "print-state", false, "Print network and broker reachability and exit")

	flag.Parse()

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	link := network.NewNMLink(o.iface)

	// Print state mode
	if o.printState {
		return printState(os.Stdout, link, mqtt.NewRealSubscriber(o.broker), o.broker)
	}

	strip, err := led.NewRGBStrip(o.chip, o.pinR, o.pinG, o.pinB, o.commonAnode)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}
	defer strip.Close()

	sink, err := audio.NewAplaySink(o.audioDevice)
	if err != nil {
		return fmt.Errorf("init audio: %w", err)
	}

	broker := mqtt.NewRealSubscriber(o.broker)

	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:    o.broker,
		Topic:     o.topic,
		SSID:      o.ssid,
		Interface: o.iface,
		PollMs:    o.poll.Milliseconds(),
		HTTPAddr:  o.httpAddr,
	})
	m := metrics.New()

	cfg := device.DefaultConfig()
	cfg.SSID = o.ssid
	cfg.Password = o.password
	cfg.Topic = o.topic

	rt := device.New(cfg, device.Deps{
		Link:    link,
		Broker:  broker,
		Strip:   strip,
		Sink:    sink,
		Tracker: tracker,
		Metrics: m,
	})

	// Start HTTP status server
	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	rt.Start()
	log.Printf("started: poll=%v broker=%s topic=%s", o.poll, o.broker, o.topic)

	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(rt, time.Now, ticker.C, sigCh)
}

// stepper is the part of the device runtime driven by the loop.
type stepper interface {
	Step(now time.Time)
	Shutdown()
}

func runLoop(rt stepper, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			rt.Shutdown()
			return nil

		case <-tick:
			rt.Step(now())
		}
	}
}

// printState makes one broker connection attempt and reports what it found.
func printState(w io.Writer, link network.Link, broker mqtt.Subscriber, addr string) error {
	networkUp := link.Connected()
	if networkUp {
		fmt.Fprintf(w, "NETWORK: UP (%s)\n", link.LocalAddress())
	} else {
		fmt.Fprintf(w, "NETWORK: DOWN\n")
	}

	id := logic.ClientID(mqtt.ClientIDPrefix, 0)
	if err := broker.Connect(id); err != nil {
		fmt.Fprintf(w, "BROKER: DOWN %s (rc=%d)\n", addr, broker.State())
	} else {
		fmt.Fprintf(w, "BROKER: UP %s\n", addr)
	}
	fmt.Fprintf(w, "STATE: %s\n", logic.Derive(networkUp, broker.IsConnected()))

	if err := broker.Close(); err != nil {
		return fmt.Errorf("close broker: %w", err)
	}
	return nil
}
