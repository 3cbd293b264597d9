package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/x-xyz/saleengine/app/api/docs"
	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/database/mongoclient"
	"github.com/x-xyz/saleengine/base/database/redisclient"
	"github.com/x-xyz/saleengine/base/env"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	bValidator "github.com/x-xyz/saleengine/base/validator"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/bid"
	"github.com/x-xyz/saleengine/domain/event"
	"github.com/x-xyz/saleengine/domain/keys"
	"github.com/x-xyz/saleengine/domain/offer"
	"github.com/x-xyz/saleengine/domain/pricing"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
	mmiddleware "github.com/x-xyz/saleengine/middleware"
	"github.com/x-xyz/saleengine/service/cache"
	"github.com/x-xyz/saleengine/service/cache/provider"
	"github.com/x-xyz/saleengine/service/cache/provider/compound"
	"github.com/x-xyz/saleengine/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/saleengine/service/cache/provider/redis"
	"github.com/x-xyz/saleengine/service/dispatcher"
	"github.com/x-xyz/saleengine/service/eventbus"
	"github.com/x-xyz/saleengine/service/identity"
	"github.com/x-xyz/saleengine/service/payment"
	"github.com/x-xyz/saleengine/service/query"
	"github.com/x-xyz/saleengine/service/redis"
	"github.com/x-xyz/saleengine/service/scheduler"
	auction_usecase "github.com/x-xyz/saleengine/stores/auction/usecase"
	auth_delivery "github.com/x-xyz/saleengine/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/saleengine/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/saleengine/stores/auth/usecase"
	bid_repository "github.com/x-xyz/saleengine/stores/bid/repository"
	hc_delivery "github.com/x-xyz/saleengine/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/saleengine/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/saleengine/stores/healthcheck/usecase"
	offer_repository "github.com/x-xyz/saleengine/stores/offer/repository"
	offer_usecase "github.com/x-xyz/saleengine/stores/offer/usecase"
	sale_delivery "github.com/x-xyz/saleengine/stores/sale/delivery/http"
	sale_usecase "github.com/x-xyz/saleengine/stores/sale/usecase"
	saleobject_repository "github.com/x-xyz/saleengine/stores/saleobject/repository"
	saleobject_usecase "github.com/x-xyz/saleengine/stores/saleobject/usecase"
	transaction_repository "github.com/x-xyz/saleengine/stores/transaction/repository"
	transaction_usecase "github.com/x-xyz/saleengine/stores/transaction/usecase"
)

func init() {
	pflag.String("config", "infra/configs/config.yaml", "path of the yaml config")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		panic(err)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigFile(viper.GetString("config"))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if err := log.Init(viper.GetBool(`debug`)); err != nil {
		panic(err)
	}
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func setDefaults() {
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("storage.driver", "memory")
	viper.SetDefault("cache.size", 64)
	viper.SetDefault("cache.leaderTTL", 2*time.Second)
	viper.SetDefault("httpCache.ttl", 5*time.Second)
	viper.SetDefault("auction.extendWindow", pricing.DefaultExtendWindow)
	viper.SetDefault("auction.extension", pricing.DefaultExtension)
	viper.SetDefault("auction.defaultDuration", saleobject_usecase.DefaultAuctionDuration)
	viper.SetDefault("transaction.commissionRate", pricing.DefaultCommissionRate.String())
	viper.SetDefault("transaction.autoCompleteAfter", transaction_usecase.DefaultAutoCompleteAfter)
	viper.SetDefault("scheduler.interval", scheduler.DefaultInterval)
	viper.SetDefault("dispatcher.idleTimeout", dispatcher.DefaultIdleTimeout)
	viper.SetDefault("dispatcher.mailboxSize", dispatcher.DefaultMailboxSize)
	viper.SetDefault("payment.timeout", payment.DefaultTimeout)
	viper.SetDefault("payment.workers", 8)
	viper.SetDefault("payment.retryLimit", 5)
	viper.SetDefault("identity.cacheTTL", identity.DefaultCacheTTL)
	viper.SetDefault("healthcheck.timeout", 2*time.Second)
}

// stores bundles the repositories of one storage driver
type stores struct {
	saleObject  saleobject.Repo
	ledger      bid.Ledger
	offer       offer.Repo
	transaction transaction.Repo
	transactor  domain.Transactor
	mongo       *mongoclient.Client
}

func mustInitStores(context ctx.Ctx) stores {
	driver := viper.GetString("storage.driver")
	context.WithField("driver", driver).Info("init storage")

	switch driver {
	case "memory":
		return stores{
			saleObject:  saleobject_repository.NewMemorySaleObjectRepo(),
			ledger:      bid_repository.NewMemoryLedger(),
			offer:       offer_repository.NewMemoryOfferRepo(),
			transaction: transaction_repository.NewMemoryTransactionRepo(),
			// the dispatcher is the only writer of an object, so commands
			// need no storage transaction in memory
			transactor: query.Inline(),
		}
	case "mongo":
		mongoClient := mongoclient.MustConnectMongoClient(mongoclient.Config{
			URI:                viper.GetString("mongo.uri"),
			AuthDBName:         viper.GetString("mongo.authDBName"),
			DBName:             viper.GetString("mongo.dbName"),
			SSL:                viper.GetBool("mongo.enableSSL"),
			SetSafe:            true,
			PoolSizeMultiplier: 2,
		})
		q := query.New(mongoClient, viper.GetBool("mongo.checkIndex"))

		indexes := map[domain.Table][]query.Index{
			domain.TableSaleObjects:  saleobject_repository.Indexes(),
			domain.TableBids:         bid_repository.Indexes(),
			domain.TableOffers:       offer_repository.Indexes(),
			domain.TableTransactions: transaction_repository.Indexes(),
		}
		for table, idx := range indexes {
			if err := q.EnsureIndexes(context, table, idx...); err != nil {
				context.WithFields(log.Fields{"table": table, "err": err}).Panic("EnsureIndexes failed")
			}
		}

		return stores{
			saleObject:  saleobject_repository.NewSaleObjectRepo(q),
			ledger:      bid_repository.NewLedger(q),
			offer:       offer_repository.NewOfferRepo(q),
			transaction: transaction_repository.NewTransactionRepo(q),
			transactor:  q,
			mongo:       mongoClient,
		}
	}

	context.WithField("driver", driver).Panic("unknown storage driver")
	return stores{}
}

func mustInitPublisher(context ctx.Ctx) event.Publisher {
	url := viper.GetString("nats.url")
	if url == "" {
		context.Info("nats.url not set, events are logged only")
		return eventbus.NewLog()
	}
	conn, err := eventbus.Connect(url)
	if err != nil {
		context.WithFields(log.Fields{"url": url, "err": err}).Panic("nats connect failed")
	}
	return eventbus.NewNats(conn, viper.GetString("nats.subjectPrefix"))
}

//	@title			Sale Engine API
//	@version		1.0
//	@description	Auctions, quick-sale offers and the transactions they turn into.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				apply a token from the account service as Bearer {token}
func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.AddContext())
	e.Use(middL.ResponseLogger())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()
	clk := clock.New()

	st := mustInitStores(context)

	// init Redis service, optional for a single instance
	var redisCacheSvc redis.Service
	if uri := viper.GetString("redis_cache.uri"); uri != "" {
		context.Info("init redis cache")
		redisCacheName := viper.GetString("redis_cache.name")
		redisCachePool := redisclient.MustConnectRedis(uri, viper.GetString("redis_cache.password"), redisclient.RedisParam{
			PoolMultiplier: viper.GetFloat64("redis_cache.poolMultiplier"),
			Retry:          true,
		})
		redisCacheSvc = redis.New(redisCacheName, metrics.New(redisCacheName), redisCachePool)
	}

	// near layer in process, far layer shared through redis when configured
	layers := []provider.Provider{primitive.NewPrimitive("local", viper.GetInt("cache.size"))}
	if redisCacheSvc != nil {
		layers = append(layers, redisCache.NewRedis(redisCacheSvc))
	}
	cacheProvider := compound.NewCompound(layers...)
	leaderCache := cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("cache.leaderTTL"),
		Pfx:   keys.PfxLeader,
		Cache: cacheProvider,
	})
	listCache := cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("httpCache.ttl"),
		Pfx:   mmiddleware.HttpCachePfx,
		Cache: cacheProvider,
	})

	publisher := mustInitPublisher(context)

	var identitySvc domain.IdentityService
	if baseUrl := viper.GetString("identity.baseUrl"); baseUrl != "" {
		identitySvc = identity.NewClient(&identity.ClientCfg{
			HttpClient: http.Client{},
			BaseUrl:    baseUrl,
			Timeout:    viper.GetDuration("identity.timeout"),
			CacheTTL:   viper.GetDuration("identity.cacheTTL"),
		})
	} else {
		context.Warn("identity.baseUrl not set, every user may bid and sellers are checked against listings")
		identitySvc = identity.NewLocal(st.saleObject)
	}

	var paymentSvc domain.PaymentService
	if baseUrl := viper.GetString("payment.baseUrl"); baseUrl != "" {
		paymentSvc = payment.NewClient(&payment.ClientCfg{
			HttpClient: http.Client{},
			BaseUrl:    baseUrl,
			Timeout:    viper.GetDuration("payment.timeout"),
		})
	} else {
		context.Warn("payment.baseUrl not set, using the sandbox payment provider")
		paymentSvc = payment.NewSandbox()
	}

	commissionRate, err := decimal.NewFromString(viper.GetString("transaction.commissionRate"))
	if err != nil {
		context.WithField("err", err).Panic("invalid transaction.commissionRate")
	}

	// construct repository, usecase and delivery
	saleObjectUC := saleobject_usecase.New(&saleobject_usecase.SaleObjectUseCaseCfg{
		Repo:            st.saleObject,
		Ledger:          st.ledger,
		TransactionRepo: st.transaction,
		Clock:           clk,
		DefaultDuration: viper.GetDuration("auction.defaultDuration"),
	})
	transactionUC := transaction_usecase.New(&transaction_usecase.TransactionUseCaseCfg{
		Repo:              st.transaction,
		SaleObjectRepo:    st.saleObject,
		Transactor:        st.transactor,
		Clock:             clk,
		CommissionRate:    &commissionRate,
		AutoCompleteAfter: viper.GetDuration("transaction.autoCompleteAfter"),
	})
	auctionUC := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		SaleObjectRepo: st.saleObject,
		Ledger:         st.ledger,
		TransactionUC:  transactionUC,
		Transactor:     st.transactor,
		Policy: pricing.Policy{
			ExtendWindow: viper.GetDuration("auction.extendWindow"),
			Extension:    viper.GetDuration("auction.extension"),
		},
		Clock: clk,
	})
	offerUC := offer_usecase.New(&offer_usecase.OfferUseCaseCfg{
		Repo:           st.offer,
		SaleObjectRepo: st.saleObject,
		TransactionUC:  transactionUC,
		Transactor:     st.transactor,
		Clock:          clk,
	})

	disp := dispatcher.New(dispatcher.Config{
		IdleTimeout: viper.GetDuration("dispatcher.idleTimeout"),
		MailboxSize: viper.GetInt("dispatcher.mailboxSize"),
		Clock:       clk,
	})

	saleUC := sale_usecase.New(&sale_usecase.SaleUseCaseCfg{
		Dispatcher:        disp,
		SaleObjectUC:      saleObjectUC,
		AuctionUC:         auctionUC,
		OfferUC:           offerUC,
		TransactionUC:     transactionUC,
		Identity:          identitySvc,
		Payment:           paymentSvc,
		Publisher:         publisher,
		LeaderCache:       leaderCache,
		Clock:             clk,
		PaymentWorkers:    viper.GetInt("payment.workers"),
		PaymentRetryLimit: viper.GetInt("payment.retryLimit"),
	})

	sched := scheduler.New(scheduler.Config{
		Interval:          viper.GetDuration("scheduler.interval"),
		AutoCompleteAfter: viper.GetDuration("transaction.autoCompleteAfter"),
		Clock:             clk,
		Commands:          saleUC,
		SaleObjectRepo:    st.saleObject,
		TransactionRepo:   st.transaction,
		Lease:             redisCacheSvc,
		Instance:          env.PodName(),
	})
	sched.Start(context)

	var mongoPinger hc_repo.MongoPinger
	if st.mongo != nil {
		mongoPinger = st.mongo
	}
	hcRepo := hc_repo.New(mongoPinger, redisCacheSvc)
	hc_delivery.New(e, hc_usecase.New(hcRepo, viper.GetDuration("healthcheck.timeout")))

	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), viper.GetDuration("auth.tokenTTL"))
	authMiddleware := auth_middleware.New(auth)
	if viper.GetBool("auth.enableSign") {
		auth_delivery.New(e, auth)
	}

	sale_delivery.New(e, saleUC, saleObjectUC, authMiddleware, listCache, viper.GetString("webhook.secret"))

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}

	// payment jobs report back through the dispatcher, so it closes last
	sched.Stop()
	saleUC.Close()
	disp.Close()
	publisher.Close()
	if st.mongo != nil {
		if err := st.mongo.Disconnect(ctx); err != nil {
			log.Log().WithField("err", err).Warn("mongo disconnect failed")
		}
	}
	log.Sync()
}
