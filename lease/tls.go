package lease

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig holds certificate paths for mutual TLS towards etcd.
type TLSConfig struct {
	// Enabled determines whether TLS is active. If false, all other
	// fields are ignored.
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the client certificate (PEM).
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the client private key (PEM).
	KeyFile string `yaml:"key_file"`

	// CAFile is the path to the certificate authority bundle (PEM)
	// used to verify the etcd server.
	CAFile string `yaml:"ca_file"`
}

// clientConfig builds the tls.Config for client connections.
func (c *TLSConfig) clientConfig() (*tls.Config, error) {
	if c.CertFile == "" {
		return nil, fmt.Errorf("TLS cert file is required when TLS is enabled")
	}
	if c.KeyFile == "" {
		return nil, fmt.Errorf("TLS key file is required when TLS is enabled")
	}
	if c.CAFile == "" {
		return nil, fmt.Errorf("TLS CA file is required when TLS is enabled")
	}

	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificate: %w", err)
	}

	caData, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caData) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
