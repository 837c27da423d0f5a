package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/scythe504/goroda-bot/internal"
	"github.com/scythe504/goroda-bot/internal/achievements"
	"github.com/scythe504/goroda-bot/internal/game"
)

// =============================================================================
// COMMAND ROUTING
// =============================================================================

const helpMessage = `Добро пожаловать в игру "Города" 🌃!

Доступные команды 🔗:
/start -- Начать игру.
/join -- Присоединиться к игре.
/leave -- Покинуть игру во время фазы присоединения.
/help -- Показать это сообщение.
/mystats -- Показать статистику игрока.
/showachievements -- Показать список достижений.

Правила игры ☕️:
1. Каждый новый город должен начинаться на последнюю букву предыдущего города.
2. Нельзя повторять города, которые уже были названы.
3. Игра продолжается до тех пор, пока не будет достигнуто определенное количество очков.
4. Называть существующие города.

Удачи и веселой игры! 🍪`

// Router maps incoming chat messages onto engine operations. Commands start
// with '/'; everything else is a candidate city for the room's session.
type Router struct {
	engine   *game.Engine
	sink     internal.AchievementSink
	notifier internal.Notifier
}

func NewRouter(engine *game.Engine, sink internal.AchievementSink, notifier internal.Notifier) *Router {
	return &Router{
		engine:   engine,
		sink:     sink,
		notifier: notifier,
	}
}

// HandleMessage dispatches one incoming chat message.
func (r *Router) HandleMessage(roomId, playerId, name, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if !strings.HasPrefix(text, "/") {
		r.engine.HandleCity(roomId, playerId, text)
		return
	}

	command := strings.Fields(text)[0]
	// Group chats address commands as /join@botname.
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	switch command {
	case "/start":
		r.notifier.Notify(roomId, "Добро пожаловать в игру \"Города\"! Используйте /join для присоединения к игре.")
	case "/join":
		r.engine.Join(roomId, playerId, name)
	case "/leave":
		r.engine.Leave(roomId, playerId)
	case "/help":
		r.notifier.Notify(roomId, helpMessage)
	case "/mystats":
		r.sendStats(roomId, playerId, name)
	case "/showachievements":
		r.notifier.Notify(roomId, formatAchievementsList())
	default:
		log.Printf("[HandleMessage] room=%s: unknown command %q ignored", roomId, command)
	}
}

func (r *Router) sendStats(roomId, playerId, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := r.sink.Stats(ctx, playerId)
	if err != nil {
		if err != internal.ErrNoStats {
			log.Printf("[sendStats] room=%s player=%s: %v", roomId, playerId, err)
		}
		r.notifier.Notify(roomId, "У вас еще нет статистики. Сыграйте пару игр.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Статистика игрока: %s:\n\n", name)
	fmt.Fprintf(&b, "Названо городов: %d\n", stats.CitiesNamed)
	fmt.Fprintf(&b, "Побед: %d\n", stats.Wins)
	fmt.Fprintf(&b, "Побед подряд: %d\n", stats.ConsecutiveWins)
	fmt.Fprintf(&b, "Всего игр: %d\n", stats.TotalGames)
	fmt.Fprintf(&b, "Лучший счет: %d\n", stats.BestScore)

	if len(stats.FavoriteCities) > 0 {
		favorites := make([]string, 0, len(stats.FavoriteCities))
		for _, fav := range stats.FavoriteCities {
			favorites = append(favorites, fmt.Sprintf("%s (%d раз)", fav.City, fav.Count))
		}
		fmt.Fprintf(&b, "\nЛюбимые города: %s", strings.Join(favorites, ", "))
	}

	r.notifier.Notify(roomId, b.String())
}

func formatAchievementsList() string {
	var b strings.Builder
	b.WriteString("Достижения:\n\n")
	for _, m := range achievements.CityMilestones {
		fmt.Fprintf(&b, "%s: %s\nНеобходимо: %d\n\n", m.Name, m.Description, m.Threshold)
	}
	for _, m := range achievements.WinMilestones {
		fmt.Fprintf(&b, "%s: %s\nНеобходимо: %d\n\n", m.Name, m.Description, m.Threshold)
	}
	return strings.TrimRight(b.String(), "\n")
}
