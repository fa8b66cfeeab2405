package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/minsukim/jikimi/internal/server"
	"github.com/minsukim/jikimi/internal/session"
	"github.com/minsukim/jikimi/internal/store"
	"github.com/minsukim/jikimi/internal/tray"
)

const serverAddr = ":8080"

// eventRetentionDays is how long detection events are kept before the
// startup sweep removes them.
const eventRetentionDays = 90

func main() {
	fmt.Println("Jikimi - Camera Hazard Watcher")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".jikimi")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "jikimi.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cutoff := time.Now().AddDate(0, 0, -eventRetentionDays)
	if pruned, err := st.Events().Prune(cutoff); err != nil {
		log.Printf("Failed to prune old events: %v", err)
	} else if pruned > 0 {
		log.Printf("Pruned %d events older than %d days", pruned, eventRetentionDays)
	}

	sess := session.New(session.Config{
		Store:     st,
		PluginDir: filepath.Join(dataDir, "plugins"),
	})
	defer sess.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Session:   sess,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", serverAddr)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main goroutine; systray needs the main thread.
	t := tray.New()
	t.OnToggle(func(watching bool) {
		if watching {
			if err := sess.Start(); err != nil {
				log.Printf("Failed to start watching: %v", err)
				t.SetWatching(false)
			}
			return
		}
		sess.Stop()
	})
	t.OnDashboard(func() {
		openBrowser("http://localhost" + serverAddr)
	})
	t.OnQuit(func() {
		sess.Stop()
	})
	sess.SetOnAlert(t.SetLastAlert)

	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.jikimi/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".jikimi", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the dashboard URL with the platform opener.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
