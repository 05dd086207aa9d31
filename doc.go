// Package main provides the entry point of GoChurchAdmin, the web
// administration of a church management system. It serves the log settings
// page, which stores the runtime logging configuration in the database and
// reloads the logging subsystem after every change, and the giving page, whose
// payment widget is configured by the payment options in etc/main.toml.
package main
