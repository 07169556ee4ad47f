package devices

import "errors"

var (
	// ErrDeviceNotFound is returned for device ids that no longer exist.
	// During enumeration such devices are skipped and the partial list
	// remains valid.
	ErrDeviceNotFound = errors.New("audio device not found")

	// ErrUnsupportedSetting is returned when a sample rate, buffer size, or
	// bit depth falls outside what the current interface supports.
	ErrUnsupportedSetting = errors.New("setting not supported by interface")
)

// DeviceID identifies a device within the platform audio API.
type DeviceID int

// Direction selects a device's input or output side.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// Capabilities lists what a device supports. An empty set means the
// platform could not report the capability; validation treats empty as
// unrestricted.
type Capabilities struct {
	SampleRates []int
	BitDepths   []int
}

// InterfaceInfo is an immutable snapshot of one physical device. Snapshots
// are replaced wholesale on re-enumeration, never patched, and must be
// treated as read-only by consumers.
type InterfaceInfo struct {
	ID             DeviceID
	Name           string
	Manufacturer   string
	InputChannels  int
	OutputChannels int
	SampleRates    []int
	BitDepths      []int
	IsDefault      bool
}

// DeviceAPI is the platform device enumeration backend. Calls may block on
// hardware property lookups and must stay off the realtime path.
// Implementations return ErrDeviceNotFound for vanished ids.
type DeviceAPI interface {
	DeviceIDs() ([]DeviceID, error)
	DeviceName(id DeviceID) (string, error)
	DeviceManufacturer(id DeviceID) (string, error)
	ChannelCount(id DeviceID, dir Direction) (int, error)
	DefaultInputDevice() (DeviceID, error)
	Capabilities(id DeviceID) (Capabilities, error)
}
