//go:build linux

package bridge

import (
	"strings"

	"github.com/godbus/dbus/v5"
)

// dbusConn carries the session protocol over the D-Bus session bus.
type dbusConn struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	iface   string
	signals chan Signal
}

// Dial connects to the media session at the given bus destination.
func Dial(destination, objectPath, iface string) (Conn, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbus.ObjectPath(objectPath)),
		dbus.WithMatchInterface(iface),
	); err != nil {
		conn.Close()
		return nil, err
	}

	c := &dbusConn{
		conn:    conn,
		obj:     conn.Object(destination, dbus.ObjectPath(objectPath)),
		iface:   iface,
		signals: make(chan Signal, 32),
	}

	raw := make(chan *dbus.Signal, 32)
	conn.Signal(raw)
	go c.translate(raw)

	return c, nil
}

// translate strips the interface prefix off incoming signal names so the
// backend sees protocol names, not bus-qualified ones.
func (c *dbusConn) translate(raw <-chan *dbus.Signal) {
	defer close(c.signals)
	for sig := range raw {
		name := sig.Name
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		c.signals <- Signal{Name: name, Body: sig.Body}
	}
}

func (c *dbusConn) Call(method string, args ...any) ([]any, error) {
	call := c.obj.Call(c.iface+"."+method, 0, args...)
	if call.Err != nil {
		return nil, call.Err
	}
	return call.Body, nil
}

func (c *dbusConn) Signals() <-chan Signal {
	return c.signals
}

func (c *dbusConn) Close() error {
	return c.conn.Close()
}
