package devices

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/halwen/patchbay/internal/config"
)

// Catalog tracks the detected audio interfaces, the active interface, and
// the process-wide sample-rate/buffer-size/bit-depth settings. Enumeration
// is single-writer from the control plane; readers take a shared lock.
type Catalog struct {
	logger *zap.Logger
	api    DeviceAPI
	caps   *capabilityCache

	mu         sync.RWMutex
	interfaces []InterfaceInfo
	current    InterfaceInfo
	hasCurrent bool
	userPinned bool
	sampleRate int
	bufferSize int
	bitDepth   int
	listeners  []func([]InterfaceInfo)
}

// NewCatalog creates a catalog with config-derived defaults for the global
// settings and the capability cache size.
func NewCatalog(logger *zap.Logger, cfg *config.Config, api DeviceAPI) (*Catalog, error) {
	size := cfg.Devices.CapabilityCacheSize
	if size <= 0 {
		logger.Warn("capability cache size is not configured or is invalid, defaulting to 32",
			zap.Int("configuredSize", size))
		size = 32
	}

	caps, err := newCapabilityCache(size)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		logger:     logger,
		api:        api,
		caps:       caps,
		sampleRate: cfg.Audio.SampleRate,
		bufferSize: cfg.Audio.BufferSize,
		bitDepth:   cfg.Audio.BitDepth,
	}, nil
}

// DetectInterfaces queries the platform API for the full device list and
// replaces the catalog wholesale. Devices reporting zero input and zero
// output channels are dropped; devices that vanish mid-enumeration are
// skipped and enumeration continues. The device matching the platform
// default input is flagged, and becomes the current interface if none is
// set yet; an auto-selected current that vanished falls back to the new
// default, while an explicitly selected one is kept. Slow platform queries
// run without the catalog lock, so overlapping calls race benignly and the
// last writer wins. The context bounds the scan; a cut-short scan still
// publishes what it found.
func (c *Catalog) DetectInterfaces(ctx context.Context) ([]InterfaceInfo, error) {
	ids, err := c.api.DeviceIDs()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	var defaultID DeviceID
	hasDefault := false
	if id, derr := c.api.DefaultInputDevice(); derr != nil {
		c.logger.Debug("no default input device", zap.Error(derr))
	} else {
		defaultID, hasDefault = id, true
	}

	detected := make([]InterfaceInfo, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			c.logger.Warn("device scan cut short", zap.Error(ctx.Err()))

			break
		}

		info, derr := c.describeDevice(id)
		if derr != nil {
			if errors.Is(derr, ErrDeviceNotFound) {
				c.logger.Debug("device vanished during enumeration", zap.Int("device", int(id)))
			} else {
				c.logger.Warn("device query failed", zap.Int("device", int(id)), zap.Error(derr))
			}

			continue
		}
		if info.InputChannels == 0 && info.OutputChannels == 0 {
			continue
		}

		info.IsDefault = hasDefault && id == defaultID
		detected = append(detected, info)
	}

	c.caps.prune(ids)

	c.mu.Lock()
	changed := !interfaceListsEqual(c.interfaces, detected)
	c.interfaces = detected
	if c.hasCurrent {
		idx := slices.IndexFunc(detected, func(info InterfaceInfo) bool {
			return info.ID == c.current.ID
		})
		switch {
		case idx >= 0:
			// Refresh the stored snapshot; channel counts or capabilities
			// may have changed.
			c.current = detected[idx]
		case !c.userPinned:
			// The auto-selected interface vanished; let the default take
			// over below. A pinned interface is kept in case it returns.
			c.hasCurrent = false
		}
	}
	if !c.hasCurrent {
		for _, info := range detected {
			if info.IsDefault {
				c.current = info
				c.hasCurrent = true
				c.logger.Info("current interface set from platform default",
					zap.String("name", info.Name))

				break
			}
		}
	}
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	c.logger.Info("interfaces detected",
		zap.Int("count", len(detected)),
		zap.Bool("changed", changed))

	if changed {
		for _, fn := range listeners {
			fn(detected)
		}
	}

	return detected, nil
}

// Interfaces returns the latest detected interface snapshots.
func (c *Catalog) Interfaces() []InterfaceInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.interfaces)
}

// CurrentInterface returns the active interface, if one is set.
func (c *Catalog) CurrentInterface() (InterfaceInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.current, c.hasCurrent
}

// SelectInterface pins the active interface to one of the detected devices.
// Automatic default tracking never overrides an explicit selection.
func (c *Catalog) SelectInterface(id DeviceID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, info := range c.interfaces {
		if info.ID == id {
			c.current = info
			c.hasCurrent = true
			c.userPinned = true
			c.logger.Info("interface selected", zap.String("name", info.Name))

			return nil
		}
	}

	return fmt.Errorf("interface %d: %w", int(id), ErrDeviceNotFound)
}

// SetSampleRate stores the process-wide sample rate after validating it
// against the current interface's supported set, when one is declared.
func (c *Catalog) SetSampleRate(rate int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rate <= 0 {
		return fmt.Errorf("sample rate %d: %w", rate, ErrUnsupportedSetting)
	}
	if c.hasCurrent && len(c.current.SampleRates) > 0 && !slices.Contains(c.current.SampleRates, rate) {
		return fmt.Errorf("sample rate %d not supported by %q: %w",
			rate, c.current.Name, ErrUnsupportedSetting)
	}

	c.sampleRate = rate

	return nil
}

// SetBufferSize stores the process-wide buffer size. Sizes must be a power
// of two within [16, 8192] frames.
func (c *Catalog) SetBufferSize(frames int) error {
	if frames < 16 || frames > 8192 || frames&(frames-1) != 0 {
		return fmt.Errorf("buffer size %d: %w", frames, ErrUnsupportedSetting)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.bufferSize = frames

	return nil
}

// SetBitDepth stores the process-wide bit depth after validating it against
// the current interface's supported set, when one is declared.
func (c *Catalog) SetBitDepth(depth int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if depth <= 0 {
		return fmt.Errorf("bit depth %d: %w", depth, ErrUnsupportedSetting)
	}
	if c.hasCurrent && len(c.current.BitDepths) > 0 && !slices.Contains(c.current.BitDepths, depth) {
		return fmt.Errorf("bit depth %d not supported by %q: %w",
			depth, c.current.Name, ErrUnsupportedSetting)
	}

	c.bitDepth = depth

	return nil
}

// SampleRate returns the process-wide sample rate.
func (c *Catalog) SampleRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sampleRate
}

// BufferSize returns the process-wide buffer size in frames.
func (c *Catalog) BufferSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.bufferSize
}

// BitDepth returns the process-wide bit depth.
func (c *Catalog) BitDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.bitDepth
}

// OnChange registers a callback invoked after any rescan that changed the
// interface list. The callback receives the new list, runs on the scanning
// goroutine, and must treat the slice as read-only.
func (c *Catalog) OnChange(fn func([]InterfaceInfo)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listeners = append(c.listeners, fn)
}

func (c *Catalog) describeDevice(id DeviceID) (InterfaceInfo, error) {
	name, err := c.api.DeviceName(id)
	if err != nil {
		return InterfaceInfo{}, fmt.Errorf("device name: %w", err)
	}
	manufacturer, err := c.api.DeviceManufacturer(id)
	if err != nil {
		return InterfaceInfo{}, fmt.Errorf("device manufacturer: %w", err)
	}
	inputs, err := c.api.ChannelCount(id, DirectionInput)
	if err != nil {
		return InterfaceInfo{}, fmt.Errorf("input channel count: %w", err)
	}
	outputs, err := c.api.ChannelCount(id, DirectionOutput)
	if err != nil {
		return InterfaceInfo{}, fmt.Errorf("output channel count: %w", err)
	}

	caps, err := c.capabilitiesFor(id)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return InterfaceInfo{}, err
		}
		// A device without a capability report is still usable.
		c.logger.Debug("capability probe failed", zap.Int("device", int(id)), zap.Error(err))
		caps = Capabilities{}
	}

	return InterfaceInfo{
		ID:             id,
		Name:           name,
		Manufacturer:   manufacturer,
		InputChannels:  inputs,
		OutputChannels: outputs,
		SampleRates:    caps.SampleRates,
		BitDepths:      caps.BitDepths,
	}, nil
}

func (c *Catalog) capabilitiesFor(id DeviceID) (Capabilities, error) {
	if caps, ok := c.caps.Get(id); ok {
		return caps, nil
	}

	caps, err := c.api.Capabilities(id)
	if err != nil {
		return Capabilities{}, err
	}
	c.caps.Add(id, caps)

	return caps, nil
}

func interfaceListsEqual(a, b []InterfaceInfo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			a[i].Name != b[i].Name ||
			a[i].Manufacturer != b[i].Manufacturer ||
			a[i].InputChannels != b[i].InputChannels ||
			a[i].OutputChannels != b[i].OutputChannels ||
			a[i].IsDefault != b[i].IsDefault ||
			!slices.Equal(a[i].SampleRates, b[i].SampleRates) ||
			!slices.Equal(a[i].BitDepths, b[i].BitDepths) {
			return false
		}
	}

	return true
}
