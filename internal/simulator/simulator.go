// Package simulator produces the synthetic sensor feed the rest of the
// system consumes. Readings drift around their previous value with
// time-of-day occupancy patterns, are persisted on every tick, and fan out
// to subscribers.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"smartoffice/internal/models"
	"smartoffice/internal/storage"
)

// stateTopic is where each tick's snapshot is mirrored for external
// consumers on the broker.
const stateTopic = "smartoffice/sensors/state"

// Simulator owns the sensor state. One instance runs per process.
type Simulator struct {
	store      *storage.Store
	mqttClient pahomqtt.Client
	interval   time.Duration
	rng        *rand.Rand

	mu          sync.Mutex
	current     models.SensorSnapshot
	subscribers map[int]func(models.SensorSnapshot)
	nextSub     int
	stop        chan struct{}
	done        chan struct{}
}

// NewSimulator loads the last persisted snapshot (or the seeded defaults)
// and prepares a ticker at the given interval. mqttClient may be nil.
func NewSimulator(ctx context.Context, store *storage.Store, mqttClient pahomqtt.Client, interval time.Duration) (*Simulator, error) {
	snap, err := store.GetSensors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sensors: %w", err)
	}
	return &Simulator{
		store:       store,
		mqttClient:  mqttClient,
		interval:    interval,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		current:     snap,
		subscribers: make(map[int]func(models.SensorSnapshot)),
	}, nil
}

// Start begins ticking. The first tick happens immediately.
func (s *Simulator) Start() {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.tick()
		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-stop:
				return
			}
		}
	}()
	log.Printf("SIMULATOR: started (%s interval)", s.interval)
}

// Stop halts the ticker and waits for the loop to exit.
func (s *Simulator) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
	log.Println("SIMULATOR: stopped")
}

// Subscribe registers a callback for every new snapshot and returns its
// cancel function.
func (s *Simulator) Subscribe(fn func(models.SensorSnapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Current returns the latest snapshot.
func (s *Simulator) Current() models.SensorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set overrides one sensor reading, persists it and notifies subscribers.
// Used by the monitoring API for manual overrides.
func (s *Simulator) Set(ctx context.Context, key string, value float64) (models.SensorSnapshot, error) {
	s.mu.Lock()
	snap := s.current
	s.mu.Unlock()

	switch key {
	case models.SensorTemperature:
		snap.Temperature = value
	case models.SensorHumidity:
		snap.Humidity = value
	case models.SensorOccupancy:
		snap.Occupancy = value
	case models.SensorEnergy:
		snap.Energy = value
	case models.SensorAirQuality:
		snap.AirQuality = value
	default:
		return models.SensorSnapshot{}, fmt.Errorf("unknown sensor %q", key)
	}
	return s.commit(ctx, snap)
}

func (s *Simulator) tick() {
	s.mu.Lock()
	snap := s.current
	rng := s.rng
	hour := time.Now().Hour()

	snap.Temperature += (rng.Float64() - 0.5) * 0.3
	snap.Humidity = clamp(snap.Humidity+(rng.Float64()-0.5)*1, 30, 70)
	if hour >= 8 && hour <= 18 {
		snap.Occupancy = float64(rng.Intn(40) + 5)
	} else {
		snap.Occupancy = float64(rng.Intn(5))
	}
	snap.Energy = clamp(snap.Energy+(rng.Float64()-0.5)*5, 50, 150)
	snap.AirQuality = clamp(snap.AirQuality+(rng.Float64()-0.5)*10, 50, 300)
	s.mu.Unlock()

	if _, err := s.commit(context.Background(), snap); err != nil {
		log.Printf("SIMULATOR: failed to persist tick: %v", err)
	}
}

func (s *Simulator) commit(ctx context.Context, snap models.SensorSnapshot) (models.SensorSnapshot, error) {
	stored, err := s.store.UpdateSensors(ctx, snap)
	if err != nil {
		return models.SensorSnapshot{}, err
	}

	s.mu.Lock()
	s.current = stored
	subs := make([]func(models.SensorSnapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(stored)
	}
	s.publish(stored)
	return stored, nil
}

func (s *Simulator) publish(snap models.SensorSnapshot) {
	if s.mqttClient == nil || !s.mqttClient.IsConnected() {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if token := s.mqttClient.Publish(stateTopic, 0, false, payload); token.Wait() && token.Error() != nil {
		log.Printf("SIMULATOR: mqtt publish failed: %v", token.Error())
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
