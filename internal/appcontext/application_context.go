package appcontext

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type ApplicationContext struct {
	Cf               *config.Config
	Logger           *zerolog.Logger
	DbDao            *db.DbDao
	RedisClient      *redis.Client
	OrderProducer    producer.Producer
	CatalogService   service.ICatalogService
	CartService      service.ICartService
	ReconcileService service.IReconcileService
	CheckoutService  service.ICheckoutService
	OrderRepo        db.IOrderRepository
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}
	err := app.Init()
	if err != nil {
		return nil, err
	}

	return &app, nil
}

func (app *ApplicationContext) Init() error {
	app.setUpLogger()

	err := app.setUpDb()
	if err != nil {
		return err
	}

	err = app.setUpRedis()
	if err != nil {
		return err
	}

	err = app.setUpProducer()
	if err != nil {
		return err
	}

	app.setUpServices()

	return nil
}

func (app *ApplicationContext) setUpLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("moduler", app.Cf.ModulerName).
		Logger()
	app.Logger = &logger
}

func (app *ApplicationContext) setUpDb() error {
	log.Printf("Start setup database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbDao = db.NewDbDao(conn)

	err = app.DbDao.InitMigrate()
	if err != nil {
		return err
	}
	log.Printf("Finish setup database connection")
	return nil
}

func (app *ApplicationContext) setUpRedis() error {
	log.Printf("Start setup redis client")
	app.RedisClient = redis.NewClient(&redis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPassword,
	})
	if err := app.RedisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	log.Printf("Finish setup redis client")
	return nil
}

func (app *ApplicationContext) setUpProducer() error {
	log.Printf("Start setup order producer")
	p, err := producer.New(&producer.Config{
		Brokers: app.Cf.KafkaBrokerList(),
		Topic:   app.Cf.KafkaOrderTopic,
	})
	if err != nil {
		return err
	}
	app.OrderProducer = p
	log.Printf("Finish setup order producer")
	return nil
}

func (app *ApplicationContext) setUpServices() {
	log.Printf("Start setup services")
	productRepo := db.NewProductRepo(app.DbDao)
	orderRepo := db.NewOrderRepo(app.DbDao)
	stockRepo := redis_repo.NewStockRepo(app.RedisClient)
	cartRepo := redis_repo.NewCartRepo(app.RedisClient)

	app.OrderRepo = orderRepo
	app.CatalogService = service.NewCatalogService(productRepo, stockRepo)
	app.CartService = service.NewCartService(cartRepo, productRepo, app.Cf.CartMaxQuantity)
	app.ReconcileService = service.NewReconcileService(productRepo, stockRepo)
	app.CheckoutService = service.NewCheckoutService(
		app.ReconcileService,
		cartRepo,
		stockRepo,
		orderRepo,
		app.OrderProducer,
		app.Logger,
	)
	log.Printf("Finish setup services")
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Printf("Start application shutdown")

	done := make(chan error)
	go func() {
		defer close(done)

		if app.OrderProducer != nil {
			log.Printf("Closing order producer...")
			if err := app.OrderProducer.Close(); err != nil {
				// 有錯誤不結束流程
				log.Printf("order producer shutdown error: %v", err)
			}
		}

		if app.RedisClient != nil {
			log.Printf("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				log.Printf("redis shutdown error: %v", err)
			}
		}

		if app.DbDao != nil {
			log.Printf("Closing database connection...")
			if sqlDB, err := app.DbDao.DB.DB(); err == nil {
				sqlDB.Close()
			}
		}

		log.Printf("Application shutdown complete")
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %v", ctx.Err())
	}
}
