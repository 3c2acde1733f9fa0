package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xevent"
)

func TestConfigureHandlerReportsRootGeometry(t *testing.T) {
	root := Rect{X: 1930, Y: 40, Width: 800, Height: 600}
	tests := []struct {
		name     string
		readable bool
		want     []Rect
	}{
		{name: "readable", readable: true, want: []Rect{root}},
		{name: "gone", readable: false, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Rect
			read := func() (Rect, bool) { return root, tt.readable }
			handler := configureHandler(read, func(r Rect) { got = append(got, r) })

			// Coordinates relative to a window manager frame.
			handler(nil, xevent.ConfigureNotifyEvent{ConfigureNotifyEvent: &xproto.ConfigureNotifyEvent{
				X: 0, Y: 22, Width: 800, Height: 600,
			}})

			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
