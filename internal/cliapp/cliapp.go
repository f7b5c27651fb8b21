// Package cliapp is a small demonstration harness over the pool and
// command catalogue, not a product CLI. Dispatch is a flag.FlagSet per
// subcommand and a switch over args[0], logging through the bare log
// package. It keeps no persisted state and reads no environment variables.
package cliapp

import (
	"flag"
	"fmt"
	"log"

	"redisconn/internal/commands"
	"redisconn/internal/connx"
	"redisconn/internal/logger"
	"redisconn/internal/pool"
	"redisconn/internal/poolconfig"
	"redisconn/internal/resp"
)

// Execute dispatches CLI subcommands and returns a process exit code.
func Execute(args []string) int {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("[redisconn-cli] ")

	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "ping":
		return runPing(args[1:])
	case "get":
		return runGet(args[1:])
	case "set":
		return runSet(args[1:])
	case "stats":
		return runStats(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		log.Printf("Unknown subcommand: %s", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println(`redisconn-cli: demonstration harness over the pool and command catalogue

Usage:
  redisconn-cli <subcommand> [flags]

Subcommands:
  ping                      send PING through a pooled connection
  get    -key K             send GET K
  set    -key K -value V    send SET K V
  stats                     dial once and print pool occupancy as key=value pairs`)
}

func commonFlags(name string) (*flag.FlagSet, *string, *int) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	host := fs.String("host", "127.0.0.1", "server host")
	port := fs.Int("port", 6379, "server port")
	return fs, host, port
}

func newPool(host string, port int) *pool.Pool {
	opts := poolconfig.Defaults()
	opts.Host, opts.Port = host, port
	return opts.NewPool(logger.Default())
}

func runPing(args []string) int {
	fs, host, port := commonFlags("ping")
	fs.Parse(args)

	p := newPool(*host, *port)
	defer p.Shutdown()

	var reply resp.Reply
	err := p.With(func(c *connx.Connection) error {
		r, err := commands.Ping(c)
		reply = r
		return err
	})
	if err != nil {
		log.Printf("PING failed: %v", err)
		return 1
	}
	fmt.Printf("PING -> %s %q\n", reply.Kind, reply.Str)
	return 0
}

func runGet(args []string) int {
	fs, host, port := commonFlags("get")
	key := fs.String("key", "", "key to fetch")
	fs.Parse(args)
	if *key == "" {
		log.Printf("-key is required")
		return 1
	}

	p := newPool(*host, *port)
	defer p.Shutdown()

	err := p.With(func(c *connx.Connection) error {
		reply, err := commands.Get(c, *key)
		if err != nil {
			return err
		}
		if reply.IsNull() {
			fmt.Println("(nil)")
			return nil
		}
		if reply.IsError() {
			return reply.AsError()
		}
		fmt.Printf("%s\n", reply.Bulk)
		return nil
	})
	if err != nil {
		log.Printf("GET failed: %v", err)
		return 1
	}
	return 0
}

func runSet(args []string) int {
	fs, host, port := commonFlags("set")
	key := fs.String("key", "", "key to set")
	value := fs.String("value", "", "value to store")
	fs.Parse(args)
	if *key == "" {
		log.Printf("-key is required")
		return 1
	}

	p := newPool(*host, *port)
	defer p.Shutdown()

	err := p.With(func(c *connx.Connection) error {
		reply, err := commands.Set(c, *key, *value)
		if err != nil {
			return err
		}
		if reply.IsError() {
			return reply.AsError()
		}
		fmt.Printf("%s\n", reply.Str)
		return nil
	})
	if err != nil {
		log.Printf("SET failed: %v", err)
		return 1
	}
	return 0
}

func runStats(args []string) int {
	fs, host, port := commonFlags("stats")
	fs.Parse(args)

	p := newPool(*host, *port)
	defer p.Shutdown()

	// Dial one connection so Stats reports something other than all-zero.
	if err := p.With(func(c *connx.Connection) error {
		_, err := commands.Ping(c)
		return err
	}); err != nil {
		log.Printf("warm-up ping failed: %v", err)
	}

	s := p.Stats()
	fmt.Printf("idle=%d active=%d total=%d waiters=%d created=%d destroyed=%d\n",
		s.Idle, s.Active, s.Total, s.Waiters, s.CreatedTotal, s.DestroyedTotal)
	return 0
}
