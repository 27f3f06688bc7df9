package synopsis

// Prompts is the fixed text wrapped around every completion call.
type Prompts struct {
	// ChunkPrefix opens every chunk sent as the user turn.
	ChunkPrefix string
	// Instruction is the summarization system text. It ends with the
	// "already covered" header after which the summary tail is appended.
	Instruction string
	// TitleInstruction asks for a one-line title of the whole transcript.
	TitleInstruction string
}

var prompts = map[string]Prompts{
	"en": {
		ChunkPrefix: "Input data:\n",
		Instruction: `You are a program that writes a synopsis of the transcript given as input.
Pick out the most important moments of this recording and describe the essence of each in 2-3 sentences. For every moment give the timecode where it starts.
Rules:
1. Focus only on the most important information. Do not go into details.
2. For every key moment give the timecode taken from the start of the matching fragment of the transcript.
3. Make sure the timecode matches the start of the key moment exactly.
4. Format the output as a list where every item is "Key moment - TIMECODE". Do not add anything before or after the list.
5. Do not repeat topics that were recently summarized.
Example output:
- The core problem of psychology. - 10:15
- The first proposed approach to solving it. - 15:30
You have already summarized:
`,
		TitleInstruction: "You are a program that must give a title to the provided text. TAKE INTO ACCOUNT the specifics and the topic of this particular text and include them in the title. Reply with the title only, in the format `Title`",
	},
	"ru": {
		ChunkPrefix: "Входные данные:\n",
		Instruction: `Ты программа, которая должна конспектировать транскрипцию, которая подается на входе.
Выдели самые важные моменты из этой записи и расскажи об их сути в 2-3 предложениях, для каждого момента укажи таймкод его начала.
Правила:
1. Фокусируйся только на самой важной информации. Не уходи в детали.
2. Для каждого ключевого момента укажи таймкод, взятый из начала соответствующего фрагмента в транскрипте.
3. Убедись, что таймкод точно соответствует началу обсуждаемого ключевого момента.
4. Отформатируй вывод в виде списка, где каждый элемент списка – это "Ключевой момент - ТАЙМКОД". Не добавляй ничего лишнего до или после списка.
5. Не дублируй темы, которые были недавно законспектированы.
Пример вывода:
- Основная проблема психологии. - 10:15
- Предложение первого подхода решения. - 15:30
Ты уже законспектировал:
`,
		TitleInstruction: "Ты - программа, которая должна дать название предоставленному тексту. УЧТИ специфику и тему именно данного текста и включи их в название. В ответе дай только название в формате `Название`",
	},
}

// PromptsFor returns the prompt set for locale, falling back to English.
func PromptsFor(locale string) Prompts {
	if p, ok := prompts[locale]; ok {
		return p
	}
	return prompts["en"]
}
