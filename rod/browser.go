package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRecycleAfter is the number of pages a browser renders before it
// is relaunched. Chrome memory grows across long crawls.
const DefaultRecycleAfter = 75

// browser is a headless Chrome process that is relaunched after a fixed
// number of pages.
type browser struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	conn     *rod.Browser
	pages    int
	limit    int
}

func launch(limit int) (*browser, error) {
	b := &browser{limit: limit}
	if err := b.start(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *browser) start() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	conn := rod.New().ControlURL(u)
	if err := conn.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connect to browser: %w", err)
	}
	b.launcher, b.conn = l, conn
	return nil
}

// newPage opens a blank tab, relaunching the browser first when it has
// rendered its share of pages. A failed relaunch keeps the old process.
func (b *browser) newPage() (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil, fmt.Errorf("browser is closed")
	}
	if b.limit > 0 && b.pages >= b.limit {
		oldLauncher, oldConn := b.launcher, b.conn
		if err := b.start(); err == nil {
			_ = oldConn.Close()
			oldLauncher.Kill()
			b.pages = 0
		}
	}
	b.pages++
	return b.conn.Page(proto.TargetCreateTarget{})
}

func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.conn != nil {
		err = b.conn.Close()
		b.conn = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}
