// Package webip discovers the host public IP from plain-text web
// services. Used as a fallback when STUN is firewalled; port 443 is
// usually open even there.
package webip

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

var providers = []string{
	"https://ident.me",
	"https://ifconfig.me/ip",
	"https://api.ipify.org",
	"https://icanhazip.com",
}

func PublicIP() (net.IP, error) {
	client := http.Client{
		Timeout: 5 * time.Second,
	}

	for _, url := range providers {
		ip, err := fetch(&client, url)
		if err == nil {
			return ip, nil
		}
	}

	return nil, fmt.Errorf("all web IP providers failed")
}

func fetch(client *http.Client, url string) (net.IP, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return nil, err
	}

	ip := net.ParseIP(strings.TrimSpace(string(body)))
	if ip == nil {
		return nil, fmt.Errorf("%s returned an invalid address", url)
	}

	return ip, nil
}
