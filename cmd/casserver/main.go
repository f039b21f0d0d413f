/*
Casserver starts a casengine server and begins listening for new connections.

Usage:

	casserver [flags]
	casserver [flags] -l [[ADDRESS]:PORT]

Once started, the casengine server will listen for HTTP requests and respond
to them using REST protocol. By default, it will listen on localhost:8080.
This can be changed with the --listen/-l flag (or the CASENGINE_LISTEN_ADDRESS
environment variable).

If a JWT token secret is not given, one will be automatically generated and
seeded from a cryptographically random source. As a consequence, in this mode
of operation all tokens are rendered invalid as soon as the server shuts down.
This is suitable for testing, but must be given via either the CLI flag or the
environment variable if running in production.

The flags are:

	-v, --version
		Give the current version of the casengine server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable CASENGINE_LISTEN_ADDRESS, and if that is not given, will
		default to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT session tokens. If there are
		fewer than 32 bytes in the secret, it will be repeated until it is.
		The maximum size is 64 bytes. If not given, will default to the value
		of environment variable CASENGINE_TOKEN_SECRET. If no secret is
		specified or an empty secret is given, a random secret will be
		automatically generated.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/casengine/internal/version"
	"github.com/dekarrin/casengine/server"
)

const (
	EnvListen = "CASENGINE_LISTEN_ADDRESS"
	EnvSecret = "CASENGINE_TOKEN_SECRET"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of casengine server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}
	if !strings.Contains(listenAddr, ":") {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(1)
	}

	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}

	var tokSecret []byte
	if tokSecStr != "" {
		tokSecret = []byte(tokSecStr)
		for len(tokSecret) < 32 {
			doubled := make([]byte, len(tokSecret)*2)
			copy(doubled, tokSecret)
			copy(doubled[len(tokSecret):], tokSecret)
			tokSecret = doubled
		}
		if len(tokSecret) > 64 {
			tokSecret = tokSecret[:64]
		}
	} else {
		tokSecret = make([]byte, 64)
		if _, err := rand.Read(tokSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		log.Printf("WARN  Using generated token secret; all sessions issued will become invalid at shutdown")
	}

	if _, err := portOf(listenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	srv := server.New(tokSecret)
	log.Printf("INFO  Starting casengine server %s on %s...", version.Current, listenAddr)
	log.Fatal(http.ListenAndServe(listenAddr, srv.Router()))
}

func portOf(addr string) (int, error) {
	parts := strings.SplitN(addr, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid port number", parts[1])
	}
	return port, nil
}
