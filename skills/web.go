package skills

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Deskmate-Labs/deskmate-go-core/utils"
)

const webTimeout = 20 * time.Second

// WebSkill fronts the outbound HTTP clients (weather, search, translation)
// and turns their failures into user-readable replies.
type WebSkill struct {
	weather   *utils.WeatherClient
	search    *utils.SearchClient
	translate *utils.TranslateClient
	logger    *zap.Logger
}

func NewWebSkill() *WebSkill {
	return &WebSkill{
		weather:   utils.NewWeatherClient(),
		search:    utils.NewSearchClient(),
		translate: utils.NewTranslateClient(),
		logger:    zap.L().Named("web"),
	}
}

func (w *WebSkill) Weather(city string) string {
	ctx, cancel := context.WithTimeout(context.Background(), webTimeout)
	defer cancel()

	report, err := w.weather.CurrentWeather(ctx, city)
	if err != nil {
		w.logger.Error("Weather lookup failed", zap.String("city", city), zap.Error(err))
		return fmt.Sprintf("Error checking weather: %v", err)
	}
	return report
}

func (w *WebSkill) News(topic string) string {
	ctx, cancel := context.WithTimeout(context.Background(), webTimeout)
	defer cancel()

	news, err := w.search.News(ctx, topic)
	if err != nil {
		w.logger.Error("News lookup failed", zap.String("topic", topic), zap.Error(err))
		return fmt.Sprintf("Error fetching news: %v", err)
	}
	return news
}

func (w *WebSkill) Search(query string) string {
	ctx, cancel := context.WithTimeout(context.Background(), webTimeout)
	defer cancel()

	results, err := w.search.Search(ctx, query)
	if err != nil {
		w.logger.Error("Web search failed", zap.String("query", query), zap.Error(err))
		return fmt.Sprintf("Error searching web: %v", err)
	}
	return results
}

func (w *WebSkill) Translate(text, language string) string {
	code, ok := utils.LanguageCode(language)
	if !ok {
		return fmt.Sprintf("Unsupported language: %s. Supported: English, Chinese (Simplified/Traditional).", language)
	}

	ctx, cancel := context.WithTimeout(context.Background(), webTimeout)
	defer cancel()

	translated, err := w.translate.Translate(ctx, text, code)
	if err != nil {
		w.logger.Error("Translation failed", zap.String("language", language), zap.Error(err))
		return fmt.Sprintf("Translation error: %v", err)
	}
	return fmt.Sprintf("Translated to %s: %s", language, translated)
}
