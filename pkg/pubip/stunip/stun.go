// Package stunip discovers the host public IP via public STUN servers.
package stunip

import (
	"fmt"
	"net"

	"github.com/pion/stun"
)

var stunServers = []string{
	"stun.l.google.com:19302",
	"stun1.l.google.com:19302",
	"stun2.l.google.com:19302",
	"stun.cloudflare.com:3478",
	"stun.nextcloud.com:3478",
}

var lastGoodIdx int

// PublicIP walks the server list starting from the last server that
// answered, so a healthy server keeps being asked first.
func PublicIP() (net.IP, error) {
	for i := 0; i < len(stunServers); i++ {
		ip, err := queryServer(stunServers[lastGoodIdx])
		if err == nil {
			return ip, nil
		}
		lastGoodIdx++
		if lastGoodIdx >= len(stunServers) {
			lastGoodIdx = 0
		}
	}
	return nil, fmt.Errorf("all STUN servers failed")
}

func queryServer(srv string) (net.IP, error) {
	client, err := stun.Dial("udp", srv)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var ip net.IP
	var cbErr error
	message := stun.MustBuild(stun.TransactionID, stun.BindingRequest)
	err = client.Do(message, func(res stun.Event) {
		if res.Error != nil {
			cbErr = res.Error
			return
		}
		var xorAddr stun.XORMappedAddress
		if getErr := xorAddr.GetFrom(res.Message); getErr != nil {
			cbErr = getErr
			return
		}
		ip = xorAddr.IP
	})
	if err != nil {
		return nil, err
	}
	if cbErr != nil {
		return nil, cbErr
	}
	if ip == nil {
		return nil, fmt.Errorf("no mapped address from %s", srv)
	}

	return ip, nil
}
