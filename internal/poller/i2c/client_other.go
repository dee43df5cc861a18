// internal/poller/i2c/client_other.go

//go:build !linux

package i2c

import "errors"

// Client is a stub on platforms without i2c-dev.
type Client struct{}

// New returns an error on non-Linux systems.
func New(cfg Config) (*Client, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return nil, errors.New("i2c client: only available on linux")
}

// ReadRegister is unavailable on this platform.
func (c *Client) ReadRegister(cmd uint8, n int) ([]byte, error) {
	return nil, errors.New("i2c client: not available on this platform")
}

// WriteRegister is unavailable on this platform.
func (c *Client) WriteRegister(cmd uint8, data []byte) error {
	return errors.New("i2c client: not available on this platform")
}
