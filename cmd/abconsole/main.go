// abconsole runs admin commands against a running AutoBalance host.
//
// Usage:
//
//	abconsole -url ws://localhost:8089/ws autobalance mapstat 574 1
//	abconsole -url ws://localhost:8089/ws        (interactive)
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lawnchairsociety/autobalance/internal/consoleclient"
)

func main() {
	// Load .env if present; flag defaults read the environment
	_ = godotenv.Load()

	url := flag.String("url", "ws://localhost:8089/ws", "Admin console WebSocket URL")
	password := flag.String("password", os.Getenv("AB_CONSOLE_PASSWORD"), "Admin console password")
	timeout := flag.Duration("timeout", 5*time.Second, "Reply timeout")
	flag.Parse()

	c, err := consoleclient.Dial(*url, *password, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if flag.NArg() > 0 {
		reply, err := c.Run(strings.Join(flag.Args(), " "), *timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(reply)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "quit" || line == "exit":
			return
		default:
			reply, err := c.Run(line, *timeout)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			fmt.Println(reply)
		}
		fmt.Print("> ")
	}
}
