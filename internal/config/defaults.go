package config

import "github.com/spf13/viper"

// Default values for every configurable knob. A fresh install works with no
// config file at all.
const (
	// DefaultUpstream is the onto-point used when none is given.
	DefaultUpstream = "origin/main"

	// DefaultAbbrevLength matches git's default object abbreviation.
	DefaultAbbrevLength = 7
)

func setDefaults() {
	viper.SetDefault("repo.path", "")
	viper.SetDefault("repo.upstream", DefaultUpstream)
	viper.SetDefault("plan.autosquashOnOpen", false)
	viper.SetDefault("plan.abbrevLength", DefaultAbbrevLength)
	viper.SetDefault("ui.confirmSubmit", true)
	viper.SetDefault("ui.watchRepo", true)
}
