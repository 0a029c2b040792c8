package wire

import (
	"NewsDesk/internal/api"
	"NewsDesk/internal/api/config"
	"NewsDesk/internal/api/handler"
	"NewsDesk/internal/api/middleware"
	"NewsDesk/internal/job"
	"NewsDesk/internal/pkg/cron"
	"NewsDesk/internal/pkg/es"
	"NewsDesk/internal/pkg/kafka"
	"NewsDesk/internal/pkg/mongo"
	"NewsDesk/internal/pkg/redis"
	"NewsDesk/internal/pkg/security"
	"NewsDesk/internal/repository"
	"NewsDesk/internal/service"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router        *gin.Engine
	DB            *gorm.DB
	CronMgr       *cron.Manager
	KafkaManager  *kafka.ConsumerManager // 未配置 Kafka 时为 nil
	ViewPublisher kafka.ViewPublisher
}

func BuildApplication(
	cfg *config.Config,
	db *gorm.DB,
	mongoDB *mongodriver.Database,
	rdb *goredis.Client,
	esClient *elasticsearch.TypedClient,
) (*ApplicationContainer, error) {
	loc, err := cfg.Analytics.Location()
	if err != nil {
		return nil, err
	}

	cache := redis.NewCache(rdb)

	articleRepo := mongo.NewArticleRepo(mongoDB)
	eventRepo := mongo.NewAnalyticsEventRepo(mongoDB)
	metricRepo := repository.NewArticleMetricRepository(db)
	searchRepo := es.NewArticleRepo(esClient, cfg.Elastic.ArticleIndex)

	publisher, err := kafka.NewViewPublisher(cfg)
	if err != nil {
		return nil, err
	}

	viewTrackerService := service.NewViewTrackerService(articleRepo, eventRepo, publisher, loc, cfg.Analytics.ClockSkew())
	articleMetricService := service.NewArticleMetricService(metricRepo, articleRepo, searchRepo, cache, loc)
	readerAnalyticsService := service.NewReaderAnalyticsService(articleRepo, eventRepo, cache, loc, cfg.Analytics.TrendingSize)

	handlers := &api.HandlersGroup{
		AnalyticsHandler:       handler.NewAnalyticsHandler(viewTrackerService),
		ReaderAnalyticsHandler: handler.NewReaderAnalyticsHandler(readerAnalyticsService, articleMetricService),
	}

	jwtManager := security.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	router := api.SetupRouter(handlers, cfg, middleware.AuthMiddleware(jwtManager, cache))

	articleMetricsJob := job.NewArticleMetricsJob(cache, articleMetricService)
	cronMgr := cron.NewCronManager(articleMetricsJob, cfg.Analytics.MetricsCron)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, cache, loc)
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}

	return &ApplicationContainer{
		Router:        router,
		DB:            db,
		CronMgr:       cronMgr,
		KafkaManager:  kafkaMgr,
		ViewPublisher: publisher,
	}, nil
}
