package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/hollyoak/guibridge/bridge"
	"github.com/hollyoak/guibridge/gui"
	"github.com/hollyoak/guibridge/host/glhost"
)

type config struct {
	Title    string
	Width    int
	Height   int
	VSync    bool
	LogLevel string
}

func loadConfig() config {
	cfg := config{Title: "guibridge demo", Width: 800, Height: 600, VSync: true, LogLevel: "info"}
	data, err := os.ReadFile("demo.toml")
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		log.Printf("demo.toml ignored: %v", err)
	}
	return cfg
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// demoApp is the classic name/age form: a text field, a slider, a button
// that ages you a year per click.
type demoApp struct {
	name string
	age  int
}

func (a *demoApp) Update(ctx *gui.Context) {
	ctx.Panel()
	ctx.Heading("guibridge demo")
	ctx.Space(4)
	ctx.Label("Your name:")
	ctx.TextEdit("name", &a.name)
	ctx.Slider("age", &a.age, 0, 120)
	if ctx.Button("Click each year") {
		a.age++
	}
	ctx.Separator()
	ctx.Labelf("Hello %q, age %d", a.name, a.age)
}

func main() {
	cfg := loadConfig()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})))

	win, err := glhost.NewWindow(glhost.Config{
		Title: cfg.Title, Width: cfg.Width, Height: cfg.Height, VSync: cfg.VSync,
	})
	if err != nil {
		log.Fatalf("window: %v", err)
	}
	defer win.Terminate()

	rend, err := glhost.NewRenderer(win)
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}
	defer rend.Shutdown()

	h := bridge.Init(func(*gui.Context) bridge.App {
		return &demoApp{name: "Arthur", age: 42}
	}, bridge.Options{Host: rend})
	defer bridge.Destroy(h)

	for !win.ShouldClose() {
		buf := win.NextFrame()
		if _, st := bridge.Update(h, buf); st != bridge.StatusOK {
			slog.Error("frame update failed", "status", st.String())
		}
		if rend.TookPaint() {
			win.Swap()
		} else {
			// Nothing repainted; idle briefly instead of spinning.
			time.Sleep(10 * time.Millisecond)
		}
	}
}
