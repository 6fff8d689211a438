package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownDBEngine error if config db.gormEngine names an unsupported driver.
	ErrUnknownDBEngine = errors.New("toml config db.gormEngine must be one of mysql, postgres, sqlite")

	// ErrUnknownKeySource error if config api.keySource is neither config nor db.
	ErrUnknownKeySource = errors.New("toml config api.keySource must be config or db")

	// ErrInvalidAPIKeys error if an api.keys entry misses its name or has a key shorter than 16 characters.
	ErrInvalidAPIKeys = errors.New("toml config api.keys entry is invalid")
)
