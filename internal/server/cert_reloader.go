package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"resumedoctor/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// CertReloader holds the server certificate pair and reloads it from
// disk when the files change. Reloads are debounced so atomic writes
// that touch both files trigger a single reload.
type CertReloader struct {
	mu sync.RWMutex

	certFile string
	keyFile  string

	cert   *tls.Certificate
	expiry time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	logger  *errors.Logger
	running bool
}

// NewCertReloader loads the initial certificate pair and prepares a
// watcher for it. Call Start to begin watching.
func NewCertReloader(certFile, keyFile string, debounceDelay time.Duration, logger *errors.Logger) (*CertReloader, error) {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}

	cr := &CertReloader{
		certFile:      certFile,
		keyFile:       keyFile,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		logger:        logger,
	}

	if err := cr.reload(); err != nil {
		return nil, fmt.Errorf("failed to load initial certificate: %w", err)
	}

	return cr, nil
}

// GetCertificate implements tls.Config.GetCertificate
func (cr *CertReloader) GetCertificate(_ *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.cert == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return cr.cert, nil
}

// TimeToExpiry returns how long until the current leaf certificate expires
func (cr *CertReloader) TimeToExpiry() time.Duration {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return time.Until(cr.expiry)
}

// reload loads the key pair from disk and swaps it in
func (cr *CertReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(cr.certFile, cr.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load key pair: %w", err)
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse leaf certificate: %w", err)
	}

	cr.mu.Lock()
	cr.cert = &cert
	cr.expiry = leaf.NotAfter
	cr.mu.Unlock()

	return nil
}

// Start begins watching the certificate files for changes
func (cr *CertReloader) Start() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.running {
		return fmt.Errorf("certificate reloader is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cr.fsWatcher = watcher

	// Watch the directories rather than the files so atomic writes
	// (write to temp file, rename over) are still observed.
	dirs := map[string]bool{}
	for _, file := range []string{cr.certFile, cr.keyFile} {
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			cr.cleanupWatcher()
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	cr.running = true
	go cr.watchLoop()

	if cr.logger != nil {
		cr.logger.Info("Certificate file watcher started",
			"cert_file", cr.certFile,
			"key_file", cr.keyFile,
			"debounce_delay", cr.debounceDelay)
	}
	return nil
}

// Stop stops the certificate file watcher
func (cr *CertReloader) Stop() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.running {
		return nil
	}

	close(cr.stopChan)

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}

	if cr.fsWatcher != nil {
		if err := cr.fsWatcher.Close(); err != nil {
			if cr.logger != nil {
				cr.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	cr.running = false

	if cr.logger != nil {
		cr.logger.Info("Certificate file watcher stopped")
	}

	return nil
}

// IsRunning returns whether the watcher is currently active
func (cr *CertReloader) IsRunning() bool {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.running
}

func (cr *CertReloader) cleanupWatcher() {
	if cr.fsWatcher != nil {
		if closeErr := cr.fsWatcher.Close(); closeErr != nil && cr.logger != nil {
			cr.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

func (cr *CertReloader) watchLoop() {
	for {
		select {
		case event, ok := <-cr.fsWatcher.Events:
			if !ok {
				return
			}
			if cr.shouldProcessEvent(event) {
				cr.scheduleReload()
			}

		case err, ok := <-cr.fsWatcher.Errors:
			if !ok {
				return
			}
			if cr.logger != nil {
				cr.logger.LogError(err, "File watcher error")
			}

		case <-cr.reloadChan:
			if err := cr.reload(); err != nil {
				if cr.logger != nil {
					cr.logger.LogError(err, "Failed to reload TLS certificates, keeping previous pair")
				}
			} else if cr.logger != nil {
				cr.logger.Info("TLS certificates reloaded successfully")
			}

		case <-cr.stopChan:
			return
		}
	}
}

func (cr *CertReloader) shouldProcessEvent(event fsnotify.Event) bool {
	watched := event.Name == cr.certFile || event.Name == cr.keyFile ||
		filepath.Base(event.Name) == filepath.Base(cr.certFile) ||
		filepath.Base(event.Name) == filepath.Base(cr.keyFile)
	if !watched {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (cr *CertReloader) scheduleReload() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}

	cr.debounceTimer = time.AfterFunc(cr.debounceDelay, func() {
		select {
		case cr.reloadChan <- struct{}{}:
		default:
			// Reload already pending
		}
	})
}
