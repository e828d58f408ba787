package mqtt

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	paho "github.com/eclipse/paho.mqtt.golang"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	ClientID string
	TLS      bool // cloud brokers (port 8883) require TLS
}

// NewConn establishes the broker session, retrying with exponential backoff.
// The connection is torn down when ctx is cancelled.
func NewConn(cfg *Config, ctx context.Context) (paho.Client, error) {
	scheme := "tcp"
	if cfg.TLS {
		scheme = "ssl"
	}
	connAddr := fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port)

	opts := paho.NewClientOptions()
	opts.AddBroker(connAddr)
	opts.SetUsername(cfg.User)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetKeepAlive(60 * time.Second)
	if cfg.TLS {
		// system CA pool
		opts.SetTLSConfig(&tls.Config{})
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second
	maxRetries := 5

	var client paho.Client
	err := backoff.Retry(func() error {
		client = paho.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("failed to connect to MQTT broker: %v", token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithMaxRetries(bo, uint64(maxRetries-1)))
	if err != nil {
		return nil, fmt.Errorf("could not establish MQTT connection after retries: %v", err)
	}

	log.Printf("connected to MQTT broker at %s", connAddr)

	go func() {
		<-ctx.Done()
		client.Disconnect(250)
		log.Println("MQTT connection is closed")
	}()

	return client, nil
}
