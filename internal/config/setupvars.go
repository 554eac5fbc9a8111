package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"

	"github.com/j-veylop/pihole-sense/internal/logger"
)

// DefaultSetupVarsPath is where Pi-hole keeps its settings.
const DefaultSetupVarsPath = "/etc/pihole/setupVars.conf"

var webPasswordRe = regexp.MustCompile(`(?m)^WEBPASSWORD=([0-9a-fA-F]+)`)

// ParseSetupVars extracts the web password hash from setupVars.conf content.
func ParseSetupVars(content string) string {
	if match := webPasswordRe.FindStringSubmatch(content); len(match) > 1 {
		return match[1]
	}
	return ""
}

// ReadPasswordHash reads the web password hash from a setupVars.conf file.
func ReadPasswordHash(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	hash := ParseSetupVars(string(content))
	if hash == "" {
		return "", fmt.Errorf("no WEBPASSWORD entry in %s", path)
	}
	return hash, nil
}

// IsLocalAddress reports whether address points at this machine.
func IsLocalAddress(address string) bool {
	host := strings.TrimSpace(address)
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimSuffix(host, "/")
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// PasswordHash returns the API auth hash. A local server's setupVars.conf
// wins over the configured password. A missing hash is logged, not fatal.
func (c *Config) PasswordHash() string {
	if IsLocalAddress(c.Address) && c.SetupVarsPath != "" {
		hash, err := ReadPasswordHash(c.SetupVarsPath)
		if err == nil {
			return hash
		}
		if c.Password == "" {
			logger.Warn("Pi-hole configuration file not usable", "path", c.SetupVarsPath, "error", err)
		}
	}
	if c.Password == "" {
		logger.Warn("Password hash could not be found, set WEBPASSWORD.")
	}
	return c.Password
}
