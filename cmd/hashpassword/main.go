// Command hashpassword prints an APP_ADMIN_PASSWORD line holding a hash of
// the given password.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"practicalprague/internal/auth"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hashpassword", flag.ContinueOnError)
	fs.SetOutput(stderr)
	algo := fs.String("algo", "bcrypt", "hash algorithm: bcrypt or argon2id")
	cost := fs.Int("cost", auth.DefaultBcryptCost, "bcrypt cost")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: hashpassword [-algo bcrypt|argon2id] [-cost n] <password>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || fs.Arg(0) == "" {
		fs.Usage()
		return 1
	}
	password := fs.Arg(0)

	var (
		hash string
		err  error
	)
	switch *algo {
	case "bcrypt":
		hash, err = auth.HashPasswordBcrypt(password, *cost)
	case "argon2id":
		hash, err = auth.HashPassword(password)
	default:
		fmt.Fprintf(stderr, "unknown algorithm %q\n", *algo)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "hash password: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Add this to your environment:")
	fmt.Fprintf(stdout, "APP_ADMIN_PASSWORD=%q\n", hash)
	return 0
}
