// Package config loads carbon's run configuration.
//
// Values come from an optional YAML file, an optional .env file and the
// process environment, in increasing order of precedence. Environment
// variables holding a JSON object (the secret blobs the deployment injects)
// can be expanded into individual keys, and legacy variable names can be
// aliased onto nested configuration keys.
//
// # Usage
//
//	var cfg runner.Config
//	err := config.LoadConfig("carbon", &cfg,
//	    config.WithJSONEnv("SYMPLECTIC_FTP_JSON"),
//	    config.WithEnvAliases(map[string]string{"SYMPLECTIC_FTP_HOST": "transfer.host"}))
package config
