// internal/poller/i2c/client.go
package i2c

import (
	"errors"
	"fmt"
)

// maxTransfer bounds one register transfer. The largest register
// (SRCPDO, 7 words) is 28 bytes.
const maxTransfer = 32

// Config is minimal transport config.
type Config struct {
	Bus     int   // /dev/i2c-N
	Address uint8 // 7-bit chip address
}

func (cfg Config) check() error {
	if cfg.Bus < 0 {
		return fmt.Errorf("i2c client: bus %d invalid", cfg.Bus)
	}
	if cfg.Address < 0x03 || cfg.Address > 0x77 {
		return fmt.Errorf("i2c client: address 0x%02x outside 0x03-0x77", cfg.Address)
	}
	return nil
}

func checkLen(n int) error {
	if n <= 0 {
		return errors.New("i2c client: empty transfer")
	}
	if n > maxTransfer {
		return fmt.Errorf("i2c client: transfer of %d bytes exceeds limit %d", n, maxTransfer)
	}
	return nil
}
