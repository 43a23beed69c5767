// Package config derives the typed build configuration from the environment.
//
// A Config is built once per invocation by Load, checked by Validate and then
// handed to the script builder. Unset variables are empty strings; booleans
// accept the strconv forms case-insensitively.
//
//	cfg, err := config.Load(env.FromOS())
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
