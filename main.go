package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/pion/mdns/v2"
	"golang.org/x/net/ipv4"

	"smartoffice/internal/automation"
	"smartoffice/internal/config"
	"smartoffice/internal/db"
	"smartoffice/internal/insights"
	"smartoffice/internal/mqtt"
	"smartoffice/internal/redis"
	"smartoffice/internal/scheduler"
	"smartoffice/internal/simulator"
	"smartoffice/internal/storage"
	"smartoffice/internal/taskqueue"
	"smartoffice/internal/utils"
	"smartoffice/internal/web"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogging(cfg.LogLevel)

	ctx := context.Background()

	dbConn, err := db.NewDB(cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbConn.Close(context.Background())
	if err := dbConn.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	redisClient := redis.NewRedisClient(cfg.RedisAddr)

	store := storage.NewStore(redisClient)
	if err := store.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	var mqttClient MQTT.Client
	if cfg.MQTTBroker != "" {
		mqttClient, err = mqtt.NewMQTTClient(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.Printf("MQTT unavailable, continuing without broker: %v", err)
			mqttClient = nil
		}
	}

	sim, err := simulator.NewSimulator(ctx, store, mqttClient, time.Duration(cfg.SensorIntervalSec)*time.Second)
	if err != nil {
		log.Fatalf("Failed to initialize simulator: %v", err)
	}

	ruleStore := automation.NewStore(store)
	eng := automation.NewEngine(ruleStore, store, dbConn, store, sim, mqttClient)
	synth := automation.NewSynthesizer(ruleStore, dbConn)
	analyzer := insights.NewAnalyzer(store, sim, synth)

	taskqueue.InitClient(cfg.RedisAddr)
	taskqueue.StartWorker(cfg.RedisAddr, &taskqueue.Handlers{Engine: eng, Analyzer: analyzer})

	sched := scheduler.NewScheduler()
	if _, err := sched.AddJob("@every 10s", eng.Poll); err != nil {
		log.Fatalf("Failed to register evaluation poll: %v", err)
	}
	insightSpec := fmt.Sprintf("@every %dm", cfg.InsightIntervalMin)
	if _, err := sched.AddJob(insightSpec, func() {
		if err := taskqueue.EnqueueInsightGeneration(); err != nil {
			log.Printf("Failed to enqueue insight generation: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to register insight job: %v", err)
	}
	sched.Start()

	sim.Start()
	eng.Start()

	if cfg.MDNSLocalName != "" {
		mdnsConn, err := startMDNS(cfg.MDNSLocalName)
		if err != nil {
			log.Printf("mDNS unavailable: %v", err)
		} else {
			defer mdnsConn.Close()
		}
	}

	webServer := web.NewWebServer(redisClient, dbConn, store, ruleStore, eng, sim, analyzer, cfg.JWTSecret)
	go func() {
		if err := webServer.Start(fmt.Sprintf(":%d", cfg.HTTPPort)); err != nil {
			log.Fatalf("Web server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	eng.Shutdown()
	sim.Stop()
	sched.Stop()
	taskqueue.StopWorker()
	taskqueue.CloseClient()
	log.Println("Shutdown complete")
}

// startMDNS advertises the dashboard on the LAN so the frontend can find it
// without hardcoding an IP.
func startMDNS(localName string) (*mdns.Conn, error) {
	addr, err := net.ResolveUDPAddr("udp4", mdns.DefaultAddressIPv4)
	if err != nil {
		return nil, err
	}
	l, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, err
	}
	conn, err := mdns.Server(ipv4.NewPacketConn(l), nil, &mdns.Config{
		LocalNames: []string{localName},
	})
	if err != nil {
		return nil, err
	}
	log.Printf("mDNS advertising as %s", localName)
	return conn, nil
}
