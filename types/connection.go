package types

import (
	"fmt"
	"strings"
)

// Connection identifies a z/OSMF endpoint and the credentials used against it.
// Values are passed by copy and never mutated by the client packages.
type Connection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password,omitempty"`

	// RejectUnauthorized controls TLS certificate verification. Nil means true.
	RejectUnauthorized *bool  `yaml:"reject_unauthorized,omitempty"`
	BasePath           string `yaml:"base_path,omitempty"`
}

func NewConnection(host string, port int, user, password string) Connection {
	return Connection{Host: host, Port: port, User: user, Password: password}
}

// BaseURL renders https://host:port[/basePath] without a trailing slash.
func (c Connection) BaseURL() string {
	base := strings.TrimRight(c.BasePath, "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return fmt.Sprintf("https://%s:%d%s", c.Host, c.Port, base)
}

func (c Connection) VerifyTLS() bool {
	return c.RejectUnauthorized == nil || *c.RejectUnauthorized
}

// Validate returns the list of problems with c, empty when usable.
func (c Connection) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, "field 'connection.host' is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("field 'connection.port' must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.User) == "" {
		errs = append(errs, "field 'connection.user' is required")
	}
	if c.Password == "" {
		errs = append(errs, "field 'connection.password' is required")
	}
	return errs
}

// String never includes the password.
func (c Connection) String() string {
	return fmt.Sprintf("%s@%s:%d", c.User, c.Host, c.Port)
}
