package main

import (
	"fyne.io/fyne/v2"

	"github.com/borgmon/daybreak/pkg/models"
)

type Config struct {
	AutoStart       bool   `json:"auto_start"`
	HoldTimeSeconds int    `json:"hold_time_seconds"`
	DefaultSound    string `json:"default_sound"`
	TwentyFourHour  bool   `json:"twenty_four_hour"`
}

func loadConfig(app fyne.App) *Config {
	prefs := app.Preferences()

	return &Config{
		AutoStart:       prefs.BoolWithFallback("auto_start", false),
		HoldTimeSeconds: prefs.IntWithFallback("hold_time_seconds", 2),
		DefaultSound:    prefs.StringWithFallback("default_sound", models.DefaultSoundName),
		TwentyFourHour:  prefs.BoolWithFallback("twenty_four_hour", false),
	}
}

func saveConfig(app fyne.App, config *Config) {
	prefs := app.Preferences()

	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetInt("hold_time_seconds", config.HoldTimeSeconds)
	prefs.SetString("default_sound", config.DefaultSound)
	prefs.SetBool("twenty_four_hour", config.TwentyFourHour)
}
