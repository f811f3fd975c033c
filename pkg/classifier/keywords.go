package classifier

// Category is a coarse notification category assigned by the classifier.
type Category string

const (
	CategorySystem      Category = "system"
	CategorySignal      Category = "signal"
	CategoryIdea        Category = "idea"
	CategoryEvent       Category = "event"
	CategoryUser        Category = "user"
	CategoryAchievement Category = "achievement"
	CategoryReminder    Category = "reminder"
	CategorySocial      Category = "social"
	CategorySecurity    Category = "security"
	CategoryMaintenance Category = "maintenance"
)

// categoryOrder fixes iteration order so ties resolve deterministically.
var categoryOrder = []Category{
	CategorySystem,
	CategorySignal,
	CategoryIdea,
	CategoryEvent,
	CategoryUser,
	CategoryAchievement,
	CategoryReminder,
	CategorySocial,
	CategorySecurity,
	CategoryMaintenance,
}

// categoryKeywords maps each category to the keywords that vote for it.
// Lists mix English and Bulgarian because the notification sources do.
var categoryKeywords = map[Category][]string{
	CategorySystem: {
		"system", "update", "upgrade", "version", "server", "release",
		"система", "обновяване", "версия", "сървър",
	},
	CategorySignal: {
		"signal", "alert", "price", "market", "threshold", "trend",
		"сигнал", "цена", "пазар", "тренд",
	},
	CategoryIdea: {
		"idea", "proposal", "suggestion", "concept", "brainstorm",
		"идея", "предложение", "концепция",
	},
	CategoryEvent: {
		"event", "meeting", "schedule", "calendar", "invite", "webinar",
		"събитие", "среща", "календар", "покана",
	},
	CategoryUser: {
		"user", "profile", "account", "settings", "member",
		"потребител", "профил", "акаунт", "настройки",
	},
	CategoryAchievement: {
		"achievement", "badge", "reward", "milestone", "congratulations",
		"постижение", "награда", "поздравления",
	},
	CategoryReminder: {
		"reminder", "remember", "deadline", "expires", "overdue",
		"напомняне", "краен", "срок", "изтича",
	},
	CategorySocial: {
		"comment", "reply", "mention", "follow", "share", "like",
		"коментар", "отговор", "споделяне", "харесване",
	},
	CategorySecurity: {
		"security", "password", "login", "breach", "suspicious", "verify",
		"сигурност", "парола", "вход", "подозрително",
	},
	CategoryMaintenance: {
		"maintenance", "outage", "repair", "downtime", "interruption",
		"поддръжка", "авария", "ремонт", "прекъсване", "спиране",
	},
}

// priorityOrder fixes iteration order for priority scoring.
var priorityOrder = []string{"urgent", "high", "normal", "low"}

var priorityKeywords = map[string][]string{
	"urgent": {
		"urgent", "critical", "emergency", "immediately", "asap",
		"спешно", "спешна", "спешен", "авария", "критично", "незабавно",
	},
	"high": {
		"important", "warning", "attention", "failure", "expired",
		"важно", "внимание", "предупреждение", "грешка",
	},
	"normal": {
		"update", "info", "notice", "scheduled",
		"информация", "съобщение", "планирано",
	},
	"low": {
		"minor", "later", "optional", "fyi",
		"незначително", "опционално",
	},
}

// stopWords are excluded from tag extraction. Only words longer than four
// characters are considered, so the list carries only longer function words.
var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "before": {}, "being": {},
	"could": {}, "every": {}, "first": {}, "other": {}, "their": {},
	"there": {}, "these": {}, "through": {}, "under": {}, "where": {},
	"which": {}, "while": {}, "would": {}, "your": {}, "have": {},
	"което": {}, "които": {}, "която": {}, "преди": {}, "после": {},
	"както": {}, "между": {}, "върху": {},
}
