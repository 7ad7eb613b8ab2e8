package systemd

import (
	"bytes"
	"path/filepath"
	"text/template"

	"github.com/adrg/xdg"
)

// Unit names managed by Installer.
const (
	ServiceUnit = "shortcut-catapult.service"
	SocketUnit  = "shortcut-catapult.socket"
)

var serviceTemplate = template.Must(template.New(ServiceUnit).Parse(`[Unit]
Description=Shortcut Catapult URL redirection service
Requires={{.Socket}}

[Service]
Type=notify
ExecStart={{.Binary}} daemon --systemd
StandardOutput=journal
StandardError=journal
Restart=on-failure

[Install]
WantedBy=default.target
`))

var socketTemplate = template.Must(template.New(SocketUnit).Parse(`[Unit]
Description=Shortcut Catapult Socket
PartOf={{.Service}}

[Socket]
ListenStream=127.0.0.1:{{.Port}}
Accept=false

[Install]
WantedBy=sockets.target
`))

type unitData struct {
	Binary  string
	Port    int
	Service string
	Socket  string
}

// DefaultUnitDir is the systemd user unit directory under the XDG data home.
func DefaultUnitDir() string {
	return filepath.Join(xdg.DataHome, "systemd", "user")
}

// RenderService returns the service unit that runs binary in socket-activated mode.
func RenderService(binary string) (string, error) {
	return render(serviceTemplate, unitData{Binary: binary, Socket: SocketUnit})
}

// RenderSocket returns the socket unit listening on 127.0.0.1:port.
func RenderSocket(port int) (string, error) {
	return render(socketTemplate, unitData{Port: port, Service: ServiceUnit})
}

func render(t *template.Template, data unitData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
