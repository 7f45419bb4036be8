package main

import (
	"context"
	"log"
	"time"

	edugo "github.com/EduGo2025Bot/telegram-bot-edugo"

	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	cfg := edugo.FromEnv()
	edugo.SetVerbose(cfg.Verbose)

	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN environment variable is required")
	}

	cache, err := openCache(cfg)
	if err != nil {
		log.Fatalf("Failed to open question cache: %v", err)
	}
	defer cache.Close()

	var generator edugo.Generator
	if cfg.OpenAIAPIKey != "" {
		generator = edugo.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.MaxChars, cfg.GenLogDir)
	} else {
		log.Println("OPENAI_API_KEY not set, uploads will get placeholder questions")
		generator = edugo.StaticGenerator{}
	}

	bank := edugo.NewBank(cfg.BankPath)
	store := edugo.NewQuestionStore(bank, cache, generator, cfg.GenTimeout)
	sessions := edugo.NewSessionStore()
	limiter := edugo.NewRateLimiter(cfg.DailyLimit, 24*time.Hour)
	extractor := edugo.NewFileExtractor(cfg.MaxChars)

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	engine := edugo.NewEngine(&telegramClient{bot: bot}, store, sessions, limiter, extractor, cfg)
	registerHandlers(bot, engine)

	go serveStatus(cfg, sessions)
	go keepAlive(cfg.KeepAliveURL)

	log.Println("Bot started")
	bot.Start()
}

func openCache(cfg edugo.Config) (edugo.SetCache, error) {
	if cfg.CacheDriver == "sqlite" {
		return edugo.OpenSQLiteCache(cfg.CacheDB, cfg.CacheTTL)
	}
	return edugo.NewFileCache(cfg.CacheDir, cfg.CacheTTL)
}

func registerHandlers(bot *tele.Bot, engine *edugo.Engine) {
	bot.Handle("/start", func(c tele.Context) error {
		return engine.OnStart(context.Background(), c.Sender().ID, c.Chat().ID)
	})

	bot.Handle(tele.OnText, func(c tele.Context) error {
		return engine.OnMenuText(context.Background(), c.Sender().ID, c.Chat().ID, c.Text())
	})

	bot.Handle(tele.OnDocument, func(c tele.Context) error {
		doc := c.Message().Document
		if doc == nil {
			return nil
		}
		return engine.OnDocument(context.Background(), c.Sender().ID, c.Chat().ID, inboundDocument(bot, doc))
	})

	bot.Handle(tele.OnCallback, func(c tele.Context) error {
		cb := c.Callback()
		if err := c.Respond(); err != nil {
			log.Printf("Failed to answer callback: %v", err)
		}
		ref := edugo.MessageRef{ChatID: c.Chat().ID, MessageID: cb.Message.ID}
		return engine.OnCallback(context.Background(), c.Sender().ID, c.Chat().ID, ref, cb.Data)
	})
}
