// Package config loads and validates vmkit.json configuration files.
package config
