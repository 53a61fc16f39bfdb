package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/AndrewLester/sntp/internal/config"
	"github.com/AndrewLester/sntp/internal/sugar"
	"github.com/AndrewLester/sntp/pkg/sntp"
)

func main() {
	var configPath string
	var server string
	var timeout time.Duration
	var verify bool
	var plain bool
	flag.StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file.")
	flag.StringVar(&server, "server", "", "Server to query, overrides the config and NTP_SERVER.")
	flag.StringVar(&server, "s", server, "Server to query, overrides the config and NTP_SERVER.")
	flag.DurationVar(&timeout, "timeout", -1, "How long to wait for a reply, 0 waits forever.")
	flag.BoolVar(&verify, "verify", false, "Cross-check the result with github.com/beevik/ntp.")
	flag.BoolVar(&plain, "plain", false, "Print a single line instead of the interactive view.")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if server != "" {
		cfg.Server = config.WithPort(server)
	}
	if timeout < 0 {
		timeout, _ = cfg.TimeoutDuration()
	}

	options := []sntp.Option{sntp.WithTimeout(timeout)}
	var metrics *sntp.Metrics
	if cfg.MetricsFile != "" {
		metrics = sntp.NewMetrics()
		options = append(options, sntp.WithMetrics(metrics))
	}
	client := sntp.NewClient(cfg.Server, options...)

	var queryErr error
	if plain {
		queryErr = handlePlainQuery(client, verify, timeout)
	} else {
		m := newQueryCommandModel(client, verify, timeout)
		_, queryErr = sugar.RunProgramWithErrors(m)
	}

	if metrics != nil {
		if err := metrics.WriteFile(cfg.MetricsFile); err != nil {
			log.Printf("Error writing metrics to %s: %v", cfg.MetricsFile, err)
		}
	}

	if queryErr != nil {
		fmt.Printf("Error: %v\n", queryErr)
		os.Exit(1)
	}
}

func handlePlainQuery(client *sntp.Client, verify bool, timeout time.Duration) error {
	result, err := client.Query(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(result)

	if verify {
		v, err := sntp.Verify(result, timeout)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		fmt.Printf("beevik/ntp: %s (skew %v)\n", v.ReferenceTime.UTC().Format(sntp.TimeFormat), v.Skew)
	}
	return nil
}
