// Package config provides the configuration of mailscout: the probe
// identity and timeouts, pool sizes, generation switches, proxy and rate
// limit settings, the MX cache, and report output preferences.
//
// Values come from three layers, later ones winning: NewConfig defaults,
// the optional .mailscout YAML file, and command-line flags.
package config
