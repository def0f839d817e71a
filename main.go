package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/angas/spotprice-go/config"
	"github.com/angas/spotprice-go/elprisetjustnu"
	"github.com/angas/spotprice-go/homie"
	"github.com/angas/spotprice-go/nordpool"
	"github.com/angas/spotprice-go/prices"
	"github.com/angas/spotprice-go/task"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			slog.Default().Error("application shutting down with error", slog.Any("error", err))
			os.Exit(1)
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(logger)
	logger.Debug("spotprice is starting...", slog.String("version", Version))

	// Already validated by config.Load
	location, err := time.LoadLocation(cnfg.EnergyPrice.Timezone)
	if err != nil {
		panic(fmt.Sprintf("failed to load timezone: %v", err))
	}

	store := prices.NewStore()
	state := &task.PublishedState{}

	providers := []prices.Provider{
		nordpool.New(cnfg.EnergyPrice.Area, cnfg.EnergyPrice.Currency),       // Primary provider
		elprisetjustnu.New(cnfg.EnergyPrice.Area, cnfg.EnergyPrice.Currency), // Secondary provider
	}

	device := homie.NewPriceDevice(
		cnfg.Mqtt.BaseTopic,
		cnfg.Device.Id,
		cnfg.Device.GetName(),
		priceUnit(cnfg.EnergyPrice.Currency))

	publisher := homie.NewPublisher(cnfg.Mqtt, device)
	tasks := task.NewTasks(store, providers, state, publisher, cnfg, location)

	// After a (re)connect the retained value on the broker may be
	// stale. Re-evaluate against the current time instead of replaying
	// whatever was pending when the connection dropped.
	publisher.OnReady = func() {
		state.Reset()
		tasks.Tick()
	}

	if err := publisher.Connect(); err != nil {
		panic(fmt.Sprintf("mqtt connection error: %v", err))
	}
	defer publisher.Disconnect()

	tasks.Run()
	defer tasks.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal", slog.Any("signal", sig))
}

func priceUnit(currency string) string {
	if strings.EqualFold(currency, "SEK") {
		return "öre/kWh"
	}
	return "c/kWh"
}
