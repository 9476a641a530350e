package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	loadErr error
	loaded  bool
}

func (f *stubFeature) Name() string    { return f.name }
func (f *stubFeature) IsEnabled() bool { return f.enabled }
func (f *stubFeature) Load(app fiber.Router) error {
	f.loaded = true
	return f.loadErr
}

func TestLoadAll(t *testing.T) {
	on := &stubFeature{name: "on", enabled: true}
	off := &stubFeature{name: "off", enabled: false}

	mgr := NewManager()
	mgr.Register(on)
	mgr.Register(off)

	err := mgr.LoadAll(fiber.New())
	assert.NoError(t, err)
	assert.True(t, on.loaded)
	assert.False(t, off.loaded, "disabled features are skipped")
}

func TestLoadAllStopsOnError(t *testing.T) {
	broken := &stubFeature{name: "broken", enabled: true, loadErr: errors.New("boom")}
	after := &stubFeature{name: "after", enabled: true}

	mgr := NewManager()
	mgr.Register(broken)
	mgr.Register(after)

	err := mgr.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "loading feature broken")
	assert.False(t, after.loaded)
}
