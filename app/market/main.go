package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/database/mongoclient"
	"github.com/x-xyz/gomarket/base/database/redisclient"
	"github.com/x-xyz/gomarket/base/ethereum"
	"github.com/x-xyz/gomarket/base/keylock"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/base/txn"
	bValidator "github.com/x-xyz/gomarket/base/validator"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	mmiddleware "github.com/x-xyz/gomarket/middleware"
	"github.com/x-xyz/gomarket/service/cache"
	"github.com/x-xyz/gomarket/service/cache/provider"
	"github.com/x-xyz/gomarket/service/cache/provider/primitive"
	redisProvider "github.com/x-xyz/gomarket/service/cache/provider/redis"
	"github.com/x-xyz/gomarket/service/query"
	"github.com/x-xyz/gomarket/service/redis"
	asset_delivery "github.com/x-xyz/gomarket/stores/asset/delivery/http"
	asset_repository "github.com/x-xyz/gomarket/stores/asset/repository"
	asset_usecase "github.com/x-xyz/gomarket/stores/asset/usecase"
	auction_delivery "github.com/x-xyz/gomarket/stores/auction/delivery/http"
	auction_usecase "github.com/x-xyz/gomarket/stores/auction/usecase"
	auth_delivery "github.com/x-xyz/gomarket/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/gomarket/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/gomarket/stores/auth/usecase"
	collectormint_repository "github.com/x-xyz/gomarket/stores/collectormint/repository"
	collectormint_usecase "github.com/x-xyz/gomarket/stores/collectormint/usecase"
	fixedprice_delivery "github.com/x-xyz/gomarket/stores/fixedprice/delivery/http"
	fixedprice_usecase "github.com/x-xyz/gomarket/stores/fixedprice/usecase"
	funds_delivery "github.com/x-xyz/gomarket/stores/funds/delivery/http"
	funds_repository "github.com/x-xyz/gomarket/stores/funds/repository"
	funds_usecase "github.com/x-xyz/gomarket/stores/funds/usecase"
	hc_delivery "github.com/x-xyz/gomarket/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/gomarket/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/gomarket/stores/healthcheck/usecase"
	listing_repository "github.com/x-xyz/gomarket/stores/listing/repository"
	listing_usecase "github.com/x-xyz/gomarket/stores/listing/usecase"
	platform_delivery "github.com/x-xyz/gomarket/stores/platform/delivery/http"
	platform_repository "github.com/x-xyz/gomarket/stores/platform/repository"
	platform_usecase "github.com/x-xyz/gomarket/stores/platform/usecase"
	primarysale_delivery "github.com/x-xyz/gomarket/stores/primarysale/delivery/http"
	primarysale_repository "github.com/x-xyz/gomarket/stores/primarysale/repository"
	primarysale_usecase "github.com/x-xyz/gomarket/stores/primarysale/usecase"
	sale_delivery "github.com/x-xyz/gomarket/stores/sale/delivery/http"
	sale_repository "github.com/x-xyz/gomarket/stores/sale/repository"
	sale_usecase "github.com/x-xyz/gomarket/stores/sale/usecase"
	settlement_usecase "github.com/x-xyz/gomarket/stores/settlement/usecase"
)

const (
	backendMongo  = "mongo"
	backendMemory = "memory"
)

// repos groups the storage each store needs, picked by storage.backend
type repos struct {
	listing   market.ListingRepo
	asset     market.AssetRepo
	accounts  market.AccountRepo
	sales     market.SaleRepo
	whitelist market.ArtistWhitelistRepo
	primary   market.PrimarySaleRepo
	mints     market.CollectorMintRepo
}

func loadConfig() {
	flags := pflag.NewFlagSet("market", pflag.ExitOnError)
	configFile := flags.String("config", "infra/configs/config.yaml", "path of the yaml config file")
	flags.String("port", "", "listen address, overrides server.address")
	if err := flags.Parse(os.Args[1:]); err != nil {
		panic(err)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	viper.SetEnvPrefix("market")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}
	if port := flags.Lookup("port"); port.Changed {
		viper.Set("server.address", port.Value.String())
	}

	if viper.GetBool(`debug`) {
		log.SetDebug(true)
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	loadConfig()

	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()

	var (
		mongoClient *mongoclient.Client
		q           query.Mongo
		redisSrc    redis.Service
		runner      txn.Runner
		r           repos
	)

	switch backend := viper.GetString("storage.backend"); backend {
	case backendMongo:
		context.Info("init mongo")
		mongoCfg := mongoclient.Config{}
		if err := viper.UnmarshalKey("mongo", &mongoCfg); err != nil {
			log.Log().WithField("err", err).Panic("invalid mongo config")
		}
		mongoClient = mongoclient.MustConnect(mongoCfg)
		q = query.New(mongoClient)
		runner = q
		if viper.GetBool("mongo.check_index") {
			indexes := [][]query.Index{
				listing_repository.Indexes,
				asset_repository.Indexes,
				sale_repository.Indexes,
				platform_repository.Indexes,
				collectormint_repository.Indexes,
				primarysale_repository.Indexes,
			}
			for _, idx := range indexes {
				if err := q.EnsureIndexes(context, idx...); err != nil {
					log.Log().WithField("err", err).Panic("EnsureIndexes failed")
				}
			}
		}
		r = repos{
			listing:   listing_repository.NewMongoRepo(q),
			asset:     asset_repository.NewMongoRepo(q),
			accounts:  funds_repository.NewMongoRepo(q),
			sales:     sale_repository.NewMongoRepo(q),
			whitelist: platform_repository.NewMongoRepo(q),
			primary:   primarysale_repository.NewMongoRepo(q),
			mints:     collectormint_repository.NewMongoRepo(q),
		}
	case backendMemory, "":
		context.Info("init memory storage")
		r = repos{
			listing:   listing_repository.NewMemoryRepo(),
			asset:     asset_repository.NewMemoryRepo(),
			accounts:  funds_repository.NewMemoryRepo(),
			sales:     sale_repository.NewMemoryRepo(),
			whitelist: platform_repository.NewMemoryRepo(),
			primary:   primarysale_repository.NewMemoryRepo(),
			mints:     collectormint_repository.NewMemoryRepo(),
		}
	default:
		log.Log().WithField("backend", backend).Panic("unknown storage backend")
	}

	// with redis the primary cursor and used mint ids live there instead
	if viper.GetString("redis.uri") != "" {
		context.Info("init redis")
		redisCfg := redisclient.Config{}
		if err := viper.UnmarshalKey("redis", &redisCfg); err != nil {
			log.Log().WithField("err", err).Panic("invalid redis config")
		}
		redisName := viper.GetString("redis.name")
		redisSrc = redis.New(redisName, metrics.New(redisName), &redis.Pools{
			Src: redisclient.MustConnect(redisCfg),
		})
		r.primary = primarysale_repository.NewRedisRepo(redisSrc)
		r.mints = collectormint_repository.NewRedisRepo(redisSrc)
	}

	var whitelistProvider provider.Provider
	if redisSrc != nil {
		whitelistProvider = redisProvider.NewRedis(redisSrc)
	} else {
		whitelistProvider = primitive.NewPrimitive("whitelist", viper.GetInt("cache.size_mb"))
	}
	whitelistCache := cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("cache.whitelist_ttl"),
		Pfx:   "whitelist",
		Cache: whitelistProvider,
	})
	nonceCache := cache.New(cache.ServiceConfig{
		Ttl:   viper.GetDuration("auth.nonce_ttl"),
		Pfx:   "nonce",
		Cache: primitive.NewPrimitive("nonce", viper.GetInt("cache.size_mb")),
	})

	settings, err := platform_usecase.LoadSettings(viper.GetViper(), "market")
	if err != nil {
		log.Log().WithField("err", err).Panic("LoadSettings failed")
	}

	signature := ethereum.NewSignatureService(market.Eip712Domain{
		Name:              viper.GetString("eip712.name"),
		Version:           viper.GetString("eip712.version"),
		ChainId:           domain.ChainId(viper.GetInt("eip712.chain_id")),
		VerifyingContract: domain.Address(viper.GetString("eip712.verifying_contract")),
	})

	sinks := []sale_usecase.Sink{sale_usecase.NewLogSink()}
	if botKey := viper.GetString("discord.bot_key"); botKey != "" {
		discord, err := sale_usecase.NewDiscordSink(sale_usecase.DiscordCfg{
			BotKey:    botKey,
			ChannelId: viper.GetString("discord.channel_id"),
			Decimals:  viper.GetInt32("discord.decimals"),
			Symbol:    viper.GetString("discord.symbol"),
			AssetUrl:  viper.GetString("discord.asset_url"),
		})
		if err != nil {
			log.Log().WithField("err", err).Panic("NewDiscordSink failed")
		}
		sinks = append(sinks, discord)
	}
	publisher := sale_usecase.NewPublisher(&sale_usecase.PublisherCfg{
		Sinks:       sinks,
		Workers:     viper.GetInt("publisher.workers"),
		QueueLength: viper.GetInt("publisher.queue_length"),
		Timeout:     viper.GetDuration("publisher.timeout"),
	})

	// usecases
	transactor := txn.New(runner)
	locks := keylock.New()
	hc := hc_usecase.New(hc_repo.New(mongoClient, redisSrc))
	auth := auth_usecase.New(&auth_usecase.Cfg{
		JwtSecret: viper.GetString("auth.jwt_secret"),
		TokenTTL:  viper.GetDuration("auth.token_ttl"),
		Nonces:    nonceCache,
	})
	platform := platform_usecase.New(&platform_usecase.Cfg{
		Settings:  settings,
		Repo:      r.whitelist,
		Whitelist: whitelistCache,
	})
	ledger := primarysale_usecase.NewLedger(&primarysale_usecase.LedgerCfg{Repo: r.primary})
	asset := asset_usecase.New(&asset_usecase.Cfg{
		Repo:       r.asset,
		Ledger:     ledger,
		Transactor: transactor,
	})
	funds := funds_usecase.New(&funds_usecase.Cfg{Repo: r.accounts, Transactor: transactor})
	sale := sale_usecase.New(&sale_usecase.Cfg{Repo: r.sales})

	fixedRegistry := listing_usecase.NewRegistry(&listing_usecase.RegistryCfg{
		Venue:  market.VenueFixedPrice,
		Repo:   r.listing,
		Asset:  asset,
		Config: platform,
		Ledger: ledger,
	})
	auctionRegistry := listing_usecase.NewRegistry(&listing_usecase.RegistryCfg{
		Venue:  market.VenueAuction,
		Repo:   r.listing,
		Asset:  asset,
		Config: platform,
		Ledger: ledger,
	})
	settler := settlement_usecase.New(&settlement_usecase.Cfg{
		Registries: []market.ListingRegistry{fixedRegistry, auctionRegistry},
		Ledger:     ledger,
		Asset:      asset,
		Config:     platform,
		Funds:      funds,
		Sale:       sale,
		Transactor: transactor,
	})
	gate := collectormint_usecase.New(&collectormint_usecase.Cfg{
		Repo:       r.mints,
		Signature:  signature,
		Config:     platform,
		Asset:      asset,
		Ledger:     ledger,
		Registry:   fixedRegistry,
		Settler:    settler,
		Transactor: transactor,
		Locks:      locks,
		Publisher:  publisher,
	})
	fixed := fixedprice_usecase.New(&fixedprice_usecase.Cfg{
		Registry:   fixedRegistry,
		Settler:    settler,
		Ledger:     ledger,
		Config:     platform,
		Transactor: transactor,
		Gate:       gate,
		Locks:      locks,
		Publisher:  publisher,
	})
	auction := auction_usecase.New(&auction_usecase.Cfg{
		Registry:   auctionRegistry,
		Settler:    settler,
		Config:     platform,
		Funds:      funds,
		Refunder:   funds,
		Transactor: transactor,
		Locks:      locks,
		Publisher:  publisher,
	})

	adminAddresses := viper.GetStringSlice("admin.addresses")
	authMw := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth)
	platform_delivery.New(e, platform, authMw)
	asset_delivery.New(e, asset, authMw)
	funds_delivery.New(e, funds, authMw)
	primarysale_delivery.New(e, ledger)
	sale_delivery.New(e, sale)
	fixedprice_delivery.New(e, fixed, authMw)
	auction_delivery.New(e, auction, authMw)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	c, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(c); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
	publisher.Close()
}
