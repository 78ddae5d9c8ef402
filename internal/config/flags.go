package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-rate-limit-per-minute default per-minute limit for new API keys
//	-rate-limit-per-day default per-day limit for new API keys
//	-meter-sessions apply rate limits to session-authenticated traffic
//	-webhook-timeout per-delivery webhook timeout (e.g., "10s")
//	-webhook-queue-size webhook dispatch queue capacity
//	-webhook-workers webhook delivery worker count
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var ratePerMinute int
	var ratePerDay int
	var meterSessions bool
	var webhookTimeout time.Duration
	var webhookQueueSize int
	var webhookWorkers int

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.IntVar(&ratePerMinute, "rate-limit-per-minute", 0, "Default per-minute rate limit for API keys")
	flag.IntVar(&ratePerDay, "rate-limit-per-day", 0, "Default per-day rate limit for API keys")
	flag.BoolVar(&meterSessions, "meter-sessions", false, "Apply rate limits to session traffic")
	flag.DurationVar(&webhookTimeout, "webhook-timeout", 0, "Webhook delivery timeout (e.g., 10s)")
	flag.IntVar(&webhookQueueSize, "webhook-queue-size", 0, "Webhook dispatch queue capacity")
	flag.IntVar(&webhookWorkers, "webhook-workers", 0, "Webhook delivery worker count")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		RateLimit: RateLimit{
			DefaultPerMinute: ratePerMinute,
			DefaultPerDay:    ratePerDay,
			MeterSessions:    meterSessions,
		},
		Webhooks: Webhooks{
			DeliveryTimeout: webhookTimeout,
			QueueSize:       webhookQueueSize,
			Workers:         webhookWorkers,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
