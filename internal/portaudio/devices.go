package portaudio

import (
	"fmt"

	pa "github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/halwen/patchbay/internal/devices"
)

// probeRates are the sample rates checked against every device. PortAudio
// only answers yes/no per format, so capabilities are built by probing.
var probeRates = []int{44100, 48000, 88200, 96000, 176400, 192000}

// reportedBitDepths lists the sample formats the backend can open. PortAudio
// has no per-device bit depth query.
var reportedBitDepths = []int{16, 24, 32}

type deviceAPI struct {
	logger *zap.Logger
}

// NewDeviceAPI returns the PortAudio-backed device enumeration API. The
// Backend dependency guarantees the PortAudio runtime is initialized before
// any query runs.
func NewDeviceAPI(logger *zap.Logger, _ *Backend) devices.DeviceAPI {
	return &deviceAPI{logger: logger}
}

func (d *deviceAPI) DeviceIDs() ([]devices.DeviceID, error) {
	infos, err := pa.Devices()
	if err != nil {
		return nil, fmt.Errorf("list portaudio devices: %w", err)
	}

	ids := make([]devices.DeviceID, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, devices.DeviceID(info.Index))
	}

	return ids, nil
}

func (d *deviceAPI) DeviceName(id devices.DeviceID) (string, error) {
	info, err := lookupDevice(id)
	if err != nil {
		return "", err
	}

	return info.Name, nil
}

// DeviceManufacturer reports the host API name. PortAudio does not expose
// the hardware vendor, and the host API is the closest stable stand-in.
func (d *deviceAPI) DeviceManufacturer(id devices.DeviceID) (string, error) {
	info, err := lookupDevice(id)
	if err != nil {
		return "", err
	}
	if info.HostApi == nil {
		return "", nil
	}

	return info.HostApi.Name, nil
}

func (d *deviceAPI) ChannelCount(id devices.DeviceID, dir devices.Direction) (int, error) {
	info, err := lookupDevice(id)
	if err != nil {
		return 0, err
	}
	if dir == devices.DirectionInput {
		return info.MaxInputChannels, nil
	}

	return info.MaxOutputChannels, nil
}

func (d *deviceAPI) DefaultInputDevice() (devices.DeviceID, error) {
	info, err := pa.DefaultInputDevice()
	if err != nil {
		return 0, fmt.Errorf("default input device: %w", err)
	}

	return devices.DeviceID(info.Index), nil
}

func (d *deviceAPI) Capabilities(id devices.DeviceID) (devices.Capabilities, error) {
	info, err := lookupDevice(id)
	if err != nil {
		return devices.Capabilities{}, err
	}

	var rates []int
	for _, rate := range probeRates {
		if formatSupported(info, rate) {
			rates = append(rates, rate)
		}
	}

	return devices.Capabilities{
		SampleRates: rates,
		BitDepths:   append([]int(nil), reportedBitDepths...),
	}, nil
}

func lookupDevice(id devices.DeviceID) (*pa.DeviceInfo, error) {
	infos, err := pa.Devices()
	if err != nil {
		return nil, fmt.Errorf("list portaudio devices: %w", err)
	}
	for _, info := range infos {
		if info.Index == int(id) {
			return info, nil
		}
	}

	return nil, fmt.Errorf("device %d: %w", int(id), devices.ErrDeviceNotFound)
}

func formatSupported(info *pa.DeviceInfo, rate int) bool {
	var in, out *pa.DeviceInfo
	if info.MaxInputChannels > 0 {
		in = info
	}
	if info.MaxOutputChannels > 0 {
		out = info
	}

	params := pa.HighLatencyParameters(in, out)
	params.SampleRate = float64(rate)

	return pa.IsFormatSupported(params, probeCallback) == nil
}

// probeCallback exists only so IsFormatSupported can infer the float32
// sample format the graph streams with.
func probeCallback(_, _ [][]float32) {}
