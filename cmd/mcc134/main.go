package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikesmitty/mcc134"
	"github.com/mikesmitty/mcc134/internal/config"
	"github.com/mikesmitty/mcc134/modbusout"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

type board struct {
	dev   *mcc134.Dev
	types []mcc134.TCType
}

func main() {
	cfgPath := flag.String("config", "mcc134.yaml", "Configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	p, err := spireg.Open(cfg.SPI.Port)
	if err != nil {
		log.Fatal(err)
	}

	bus, err := mcc134.NewBus(p, &mcc134.BusOpts{
		AddressPins: cfg.SPI.AddressPins,
		Speed:       physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz,
		LockDir:     cfg.SPI.LockDir,
		LockTimeout: time.Duration(cfg.SPI.LockTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		p.Close()
		log.Fatal(err)
	}

	opts := mcc134.DefaultOptions()
	opts.LogPrintf = log.Printf
	if cfg.CalibrationPath != "" {
		opts.Calibration = mcc134.FileSource(cfg.CalibrationPath)
	}
	reg := mcc134.New(bus, opts)

	var boards []*board
	var pub *modbusout.Publisher
	shutdown := func() error {
		var err error
		for _, b := range boards {
			err = multierr.Append(err, b.dev.Halt())
		}
		if pub != nil {
			err = multierr.Append(err, pub.Close())
		}
		return multierr.Append(err, bus.Close())
	}
	fatal := func(format string, v ...interface{}) {
		if err := shutdown(); err != nil {
			log.Print(err)
		}
		log.Fatalf(format, v...)
	}

	for _, bc := range cfg.Boards {
		dev, err := reg.Open(bc.Address)
		if err != nil {
			fatal("open failed: %v", err)
		}
		b := &board{dev: dev}
		boards = append(boards, b)

		if err := reg.SetUpdateInterval(bc.Address, bc.UpdateInterval); err != nil {
			fatal("%s: %v", dev, err)
		}
		for ch, name := range bc.Channels {
			t, err := mcc134.ParseTCType(name)
			if err == nil {
				err = dev.SetChannelType(ch, t)
			}
			if err != nil {
				fatal("%s channel %d: %v", dev, ch, err)
			}
			b.types = append(b.types, t)
		}

		serial, _ := reg.Serial(bc.Address)
		date, _ := reg.CalibrationDate(bc.Address)
		log.Printf("%s: serial %s, calibrated %s", dev, serial, date)
	}

	if m := cfg.Modbus; m != nil {
		pub, err = modbusout.Dial(modbusout.Config{
			Endpoint:    m.Endpoint,
			UnitID:      m.UnitID,
			BaseAddress: m.BaseAddress,
			Timeout:     time.Duration(m.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			fatal("modbus: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Duration(cfg.IntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		for _, b := range boards {
			chans := sample(ctx, b)
			if pub != nil {
				if err := pub.Publish(b.dev.Address(), chans); err != nil {
					log.Print(err)
				}
			}
		}

		select {
		case <-ctx.Done():
			log.Print("shutting down")
			if err := shutdown(); err != nil {
				log.Fatal(err)
			}
			return
		case <-ticker.C:
		}
	}
}

// sample reads every enabled channel of a board and logs the results.
func sample(ctx context.Context, b *board) []modbusout.Channel {
	chans := make([]modbusout.Channel, len(b.types))
	for ch, t := range b.types {
		if t == mcc134.TCDisabled {
			continue
		}
		r, err := b.dev.ReadTemperature(ctx, ch)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("%s channel %d: %v", b.dev, ch, err)
			}
			continue
		}
		log.Printf("%s channel %d (type %s): %s", b.dev, ch, t, r)
		chans[ch] = modbusout.Channel{Enabled: true, Reading: r}
	}
	return chans
}
