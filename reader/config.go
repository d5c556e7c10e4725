package main

import (
	"encoding/json"
	"fmt"
	"os"

	km3 "github.com/jmbenlloch/km3go/pkg"
)

func LoadConfiguration(filename string) (km3.Configuration, error) {
	var config km3.Configuration

	// Set default values
	config.MaxEvents = 1000000000
	config.Skip = 0
	config.Verbosity = 0
	config.Selection = "best"
	config.FirstMatch = false
	config.Fields = []string{"E", "lik", "rec_type"}
	config.ProjectHits = false
	config.HitFields = []string{"dom_id", "tot"}
	config.ReadSummary = false
	config.WriteData = true
	config.NoDB = false
	config.Host = "db.km3net.example.org"
	config.User = "km3reader"
	config.Passwd = "readonly"
	config.DBName = "KM3NET"
	config.DetectorID = 42
	config.UseBlosc = false
	config.CompressionLevel = 4

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func printConfiguration(config km3.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Selection: %s", config.Selection), "config")
	logger.Info(fmt.Sprintf("Target stages: %v", config.TargetStages), "config")
	logger.Info(fmt.Sprintf("First match: %t", config.FirstMatch), "config")
	logger.Info(fmt.Sprintf("Fields: %v", config.Fields), "config")
	logger.Info(fmt.Sprintf("Project hits: %t", config.ProjectHits), "config")
	logger.Info(fmt.Sprintf("Hit fields: %v", config.HitFields), "config")
	logger.Info(fmt.Sprintf("Read summary: %t", config.ReadSummary), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Detector ID: %d", config.DetectorID), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Use blosc: %t", config.UseBlosc), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
}
