// Package config provides configuration structures and utilities for newsverdict.
// It defines the options for fetching news, driving the analyzer and validator
// models, caching model responses, and writing reports, and it loads them from
// the .newsverdict YAML file and the process environment.
package config
