// Package audio hosts the duplex sound-card path around the CTC engine:
// device selection, the capture and playback streams, and the jitter
// ring between them.
package audio

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Direction tells whether a device can capture, play back, or both.
type Direction string

// Device directions.
const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
	DirectionDuplex Direction = "duplex"
)

// Device describes a sound device for selection and display.
type Device struct {
	Name      string
	HostAPI   string
	Direction Direction
	IsDefault bool
}

// Initialize prepares the portaudio host. Callers must pair it with
// Terminate.
func Initialize() error {
	return portaudio.Initialize()
}

// Terminate releases the portaudio host.
func Terminate() error {
	return portaudio.Terminate()
}

// Devices lists all devices with their direction and default markers.
func Devices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: listing devices: %w", err)
	}

	defaultIn, _ := portaudio.DefaultInputDevice()
	defaultOut, _ := portaudio.DefaultOutputDevice()

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		d := Device{
			Name:      info.Name,
			IsDefault: info == defaultIn || info == defaultOut,
		}

		if info.HostApi != nil {
			d.HostAPI = info.HostApi.Name
		}

		switch {
		case info.MaxInputChannels > 0 && info.MaxOutputChannels > 0:
			d.Direction = DirectionDuplex
		case info.MaxInputChannels > 0:
			d.Direction = DirectionInput
		default:
			d.Direction = DirectionOutput
		}

		devices = append(devices, d)
	}

	return devices, nil
}

// FindInput resolves a capture device by case-insensitive substring
// match on the name. An empty name selects the default input device.
func FindInput(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		info, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("audio: no default input device: %w", err)
		}

		return info, nil
	}

	return findByName(name, func(info *portaudio.DeviceInfo) bool {
		return info.MaxInputChannels >= 2
	})
}

// FindOutput resolves a playback device by case-insensitive substring
// match on the name. An empty name selects the default output device.
func FindOutput(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		info, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("audio: no default output device: %w", err)
		}

		return info, nil
	}

	return findByName(name, func(info *portaudio.DeviceInfo) bool {
		return info.MaxOutputChannels >= 2
	})
}

func findByName(name string, usable func(*portaudio.DeviceInfo) bool) (*portaudio.DeviceInfo, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: listing devices: %w", err)
	}

	needle := strings.ToLower(name)
	for _, info := range infos {
		if usable(info) && strings.Contains(strings.ToLower(info.Name), needle) {
			return info, nil
		}
	}

	return nil, fmt.Errorf("audio: no stereo device matching %q", name)
}
