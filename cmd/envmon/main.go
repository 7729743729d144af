// Command envmon runs the environmental monitor: two buttons, two relays,
// a BME280 and a light sensor, with manual and automatic modes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/envmon/internal/config"
	"github.com/sweeney/envmon/internal/control"
	"github.com/sweeney/envmon/internal/display"
	"github.com/sweeney/envmon/internal/gpio"
	"github.com/sweeney/envmon/internal/logic"
	"github.com/sweeney/envmon/internal/mqtt"
	"github.com/sweeney/envmon/internal/sensor"
)

// Environment variables supplying flag defaults. A .env file in the working
// directory is loaded first if present.
const (
	envConfig   = "ENVMON_CONFIG"
	envBroker   = "ENVMON_BROKER"
	envLogLevel = "ENVMON_LOG_LEVEL"
)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv(envConfig), "YAML config file (empty for defaults)")
	broker := flag.String("broker", os.Getenv(envBroker), "MQTT broker address, overrides config (empty keeps config)")
	logLevel := flag.String("log-level", os.Getenv(envLogLevel), "Log level, overrides config")
	printState := flag.Bool("print-state", false, "Print current state and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, *printState, logger); err != nil {
		logger.Fatal("fatal", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}

func run(cfg config.Config, printState bool, logger *zap.Logger) error {
	pins := cfg.Pins()

	reader, err := gpio.NewRealReader(pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	sensors, err := sensor.NewReal(cfg.SensorConfig(), logger)
	if err != nil {
		return fmt.Errorf("init sensors: %w", err)
	}
	defer sensors.Close()

	if printState {
		return printStatus(os.Stdout, reader, sensors, cfg)
	}

	relays, err := gpio.NewRelays(pins, logger)
	if err != nil {
		return fmt.Errorf("init relays: %w", err)
	}
	defer relays.Close()

	d := deps{
		reader: reader,
		relays: relays,
		source: sensors,
		screen: display.NewConsole(os.Stdout),
		cfg:    cfg,
		now:    time.Now,
		log:    logger,
	}

	if cfg.MQTT.Broker != "" {
		publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, logger)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer publisher.Close()
		d.publisher = publisher
	}

	logger.Info("started",
		zap.Duration("sensor_poll", cfg.Timing.SensorPoll),
		zap.Duration("button_poll", cfg.Timing.ButtonPoll),
		zap.Duration("debounce", cfg.Timing.Debounce),
		zap.Duration("long_press", cfg.Timing.LongPress),
		zap.Float64("temp_threshold", cfg.Thresholds.Temperature),
		zap.Uint32("light_threshold", cfg.Thresholds.Light),
		zap.String("broker", cfg.MQTT.Broker))

	buttonTicker := time.NewTicker(cfg.Timing.ButtonPoll)
	defer buttonTicker.Stop()
	sensorTicker := time.NewTicker(cfg.Timing.SensorPoll)
	defer sensorTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return runLoop(context.Background(), d, buttonTicker.C, sensorTicker.C, sigCh)
}

// deps are the collaborators runLoop wires together. publisher is nil when
// the status mirror is disabled.
type deps struct {
	reader    gpio.Reader
	relays    control.ActuatorSink
	source    control.SensorSource
	screen    control.DisplaySink
	publisher mqtt.Publisher
	cfg       config.Config
	now       func() time.Time
	log       *zap.Logger
}

var errShutdown = errors.New("shutdown requested")

// runLoop drives the relays to their initial state, runs the button and
// sensor activities until a signal arrives or ctx is done, then switches the
// relays off.
func runLoop(ctx context.Context, d deps, buttonTick, sensorTick <-chan time.Time, sig <-chan os.Signal) error {
	state := control.NewState()

	sinks := []control.DisplaySink{d.screen}
	var mirror *mqtt.Mirror
	if d.publisher != nil {
		mirror = mqtt.NewMirror(d.publisher, d.cfg.MQTT.Interval, d.now, d.log)
		sinks = append(sinks, mirror)
	}
	screen := display.Multi(sinks...)

	buttons := control.NewButtonMachine(state, d.relays, screen, d.cfg.LogicTiming())
	loop := control.NewSensorLoop(state, d.source, d.relays, screen, d.cfg.LogicThresholds(), d.cfg.FilterSize)

	state.Sync(d.relays)
	screen.Render(state.Snapshot())
	publishSystem(d, "STARTUP", "")

	g, gctx := errgroup.WithContext(ctx)
	reason := make(chan string, 1)

	g.Go(func() error {
		select {
		case s := <-sig:
			d.log.Info("shutting down", zap.Stringer("signal", s))
			reason <- signalName(s)
			return errShutdown
		case <-gctx.Done():
			return nil
		}
	})
	g.Go(func() error {
		return runButtons(gctx, d.reader, buttons, buttonTick, d.now, d.log)
	})
	g.Go(func() error {
		return runSensors(gctx, loop, sensorTick, d.log)
	})
	if mirror != nil {
		g.Go(func() error {
			return mirror.Run(gctx)
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, errShutdown) {
		return err
	}

	var why string
	select {
	case why = <-reason:
	default:
	}

	final := state.AllOff(d.relays)
	d.screen.Render(final)
	publishSystem(d, "SHUTDOWN", why)
	if mirror != nil && mirror.Dropped() > 0 {
		d.log.Info("status mirror dropped updates", zap.Int("dropped", mirror.Dropped()))
	}
	return nil
}

// runButtons polls the buttons on every tick. A failed read skips the tick.
func runButtons(ctx context.Context, reader gpio.Reader, buttons *control.ButtonMachine, tick <-chan time.Time, now func() time.Time, log *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			t := now()
			sw3, sw4, err := reader.Read()
			if err != nil {
				log.Warn("button read failed", zap.Error(err))
				continue
			}
			if buttons.Poll(t, sw3, sw4) {
				log.Info("mode changed")
			}
		}
	}
}

// runSensors runs one sensor cycle per tick. Sensor failures are logged and
// never stop the loop.
func runSensors(ctx context.Context, loop *control.SensorLoop, tick <-chan time.Time, log *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			for _, err := range multierr.Errors(loop.Tick()) {
				fields := []zap.Field{zap.Error(err)}
				var se *control.SensorError
				if errors.As(err, &se) {
					fields = append(fields, zap.String("sensor", se.Sensor), zap.String("kind", string(se.Kind)))
				}
				log.Warn("sensor read failed", fields...)
			}
		}
	}
}

func publishSystem(d deps, event, reason string) {
	if d.publisher == nil {
		return
	}
	err := d.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp: d.now(),
		Event:     event,
		Reason:    reason,
		Retained:  true,
	})
	if err != nil {
		d.log.Warn("system event publish failed", zap.String("event", event), zap.Error(err))
		return
	}
	fields := []zap.Field{zap.String("event", event)}
	if cs, ok := d.publisher.(mqtt.ConnectionStatus); ok {
		fields = append(fields, zap.Bool("connected", cs.IsConnected()))
	}
	d.log.Info("published system event", fields...)
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}

// discardRelays ignores relay commands so print-state never switches a load.
type discardRelays struct{}

func (discardRelays) SetRelay(logic.RelayID, bool) {}

// printStatus reads the buttons and one sensor sample and prints them with
// the rendered display text.
func printStatus(w io.Writer, reader gpio.Reader, source control.SensorSource, cfg config.Config) error {
	sw3, sw4, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}
	fmt.Fprintf(w, "SW3: %s, SW4: %s\n", buttonString(sw3), buttonString(sw4))

	var frame control.Snapshot
	capture := displayFunc(func(s control.Snapshot) { frame = s })
	loop := control.NewSensorLoop(control.NewState(), source, discardRelays{}, capture, cfg.LogicThresholds(), cfg.FilterSize)
	for _, err := range multierr.Errors(loop.Tick()) {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	fmt.Fprintln(w, display.Format(frame))
	return nil
}

type displayFunc func(control.Snapshot)

func (f displayFunc) Render(s control.Snapshot) { f(s) }

func buttonString(raw bool) string {
	if raw {
		return "RELEASED"
	}
	return "PRESSED"
}
