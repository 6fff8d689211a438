// Package main is the entry point of the Mobile App Connector.
//
// The service keeps the mobile app configuration of each shop in a relational
// database and serves it to the app over an API key protected HTTP API.
// Merchants edit it in a server rendered admin built on Fiber.
package main
