package main

// General API documentation for swaggo. Run `swag init -g cmd/llamapack/docs.go`
// before building with -tags=swagger.
//
// @title           llamapack release API
// @version         1.0
// @description     HTTP API serving prebuilt llama.cpp binaries, their manifest and checksums.
//
// @contact.name   llamapack maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
