package api

import (
	"context"
	"net/http"

	"github.com/netprobe-io/netprobe/engine/common"
	"github.com/netprobe-io/netprobe/internal/config"
	"github.com/netprobe-io/netprobe/probe/tcping"
)

type portScanRequest struct {
	Host  string `json:"host"`
	Ports string `json:"ports"`
}

// portScan runs the scanner directly: scans can touch tens of
// thousands of ports and do not fit the single-command stream protocol.
func (s *Server) portScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errUsePost)
		return
	}

	var req portScanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ports, err := tcping.ParsePortRange(req.Ports)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := tcping.Scan(ctx, tcping.ScanConfig{
		Host:    req.Host,
		Ports:   ports,
		Timeout: config.ScanTimeout(),
		Workers: config.ScanWorkers(),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, common.OkResponse(result))
}
