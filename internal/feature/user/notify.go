package user

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier 用户可见的提示面（网页 flash / 终端输出）
type Notifier interface {
	Notify(level Level, msg string)
}

type NotifierFunc func(level Level, msg string)

func (f NotifierFunc) Notify(level Level, msg string) { f(level, msg) }

// 未注入时丢弃
type discard struct{}

func (discard) Notify(Level, string) {}

func orDiscard(n Notifier) Notifier {
	if n == nil {
		return discard{}
	}
	return n
}
