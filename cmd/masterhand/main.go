package main

import (
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ayusman/masterhand/internal/app"
	"github.com/ayusman/masterhand/internal/config"
	"github.com/ayusman/masterhand/internal/gesture"
	"github.com/ayusman/masterhand/internal/server"
	"github.com/ayusman/masterhand/internal/sink"
	"github.com/ayusman/masterhand/internal/store"
	"github.com/ayusman/masterhand/internal/tray"
)

func main() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".masterhand")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	settings, err := config.Load(dataDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(settings.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	dbPath := settings.DB.Path
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "masterhand.db")
	}
	st, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("failed to open event store", zap.Error(err))
	}
	defer st.Close()

	udpSink, err := sink.NewUDPSink(settings.Sink.Address, settings.Sink.EmitFull)
	if err != nil {
		logger.Fatal("failed to open event sink",
			zap.String("address", settings.Sink.Address), zap.Error(err))
	}
	defer udpSink.Close()

	application := app.New(app.Config{
		Store:  st,
		Sink:   udpSink,
		Logger: logger,
		Engine: gesture.Config{
			Policy:            gesture.SnapPolicy(settings.Snap.Policy),
			PinchThresholdSq:  settings.Snap.PinchThresholdSq,
			VelocityThreshold: settings.Snap.VelocityThreshold,
			Classify:          settings.Sink.EmitFull,
		},
		CameraID:     settings.Camera.ID,
		MotionThresh: settings.Camera.MotionThreshold,
	})

	srv := server.New(server.Config{
		Store:    st,
		Camera:   application.Camera(),
		Registry: application.Metrics().Registry(),
		Logger:   logger,
	})
	application.OnFrame(srv.Frames().Broadcast)

	trayUI := tray.New(gesture.SnapPolicy(settings.Snap.Policy))
	application.OnSnap(trayUI.SetLastSnap)
	trayUI.OnToggle(application.SetEnabled)
	trayUI.OnPolicyChange(func(policy gesture.SnapPolicy) {
		application.Engine().SetPolicy(policy)
		logger.Info("snap policy switched", zap.String("policy", string(policy)))
	})
	trayUI.OnQuit(application.Stop)

	if err := application.Start(); err != nil {
		logger.Fatal("failed to start pipeline", zap.Error(err))
	}
	application.SetEnabled(true)

	go func() {
		logger.Info("debug server listening", zap.String("address", settings.HTTP.Address))
		if err := srv.ListenAndServe(settings.HTTP.Address); err != nil {
			logger.Error("debug server stopped", zap.Error(err))
		}
	}()

	logger.Info("MasterHand started",
		zap.String("snapPolicy", settings.Snap.Policy),
		zap.String("sink", settings.Sink.Address))

	// Blocks until Quit is selected from the tray menu.
	trayUI.Run()

	application.Stop()
	logger.Info("MasterHand stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
