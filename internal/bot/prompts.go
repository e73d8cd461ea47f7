package bot

const systemPromptDefault = `Ты эмпатичный союзник. Мы начинаем новый диалог, будь внимателен к эмоциям и запросам пользователя.`

const systemPromptWithSummary = `Ты эмпатичный союзник. Вчера в нашем диалоге: %s. Используй эту информацию, чтобы сделать диалог более тёплым и продолжительным.`

const (
	replyUserNotFound = "⛔ Ошибка: пользователь не найден. Пожалуйста, начните с @gpt_soyuznik_bot."
	replyAccessDenied = "⛔ Доступ закрыт. Пожалуйста, вернитесь в основной чат @gpt_soyuznik_bot для оплаты."
	replyWelcome      = "🎯 Добро пожаловать!\n1️⃣ Как мне к вам обращаться?"
	replyAskPersona   = "2️⃣ Кто для вас союзник?"
	replyAskPriority  = "3️⃣ Что для вас сейчас важно?"
	replyDone         = "💡 Отлично! Теперь я вас знаю. Можете задавать любые вопросы, и я помогу!"
	replyFailure      = "⛔ Произошла ошибка. Попробуйте снова или обратитесь в поддержку."

	recallNameTemplate     = "Вас зовут %s."
	recallPersonaTemplate  = "Ваш союзник — %s."
	recallPriorityTemplate = "Сейчас для вас важно: %s."

	imageCaptionPrefix = "Описание изображения: "
	imagePromptText    = "Опиши это изображение."
)
