package lexicon

// The phrase tables. Earlier engine generations carried several
// near-identical copies with incremental tuning; this is the merged table.

var strongIndicators = []string{
	// Institutions & platforms
	"lecture", "university", "college", "professor", "academy", "school",
	"khan academy", "coursera", "edx", "udemy", "udacity", "skillshare",
	"brilliant", "openlearn", "crash course", "tutorial series", "course",
	"class", "workshop", "seminar", "bootcamp", "training program",
	"certificate course", "online course", "playlist course",
	// Brands
	"mit", "harvard", "stanford", "cambridge", "oxford", "yale", "berkeley",
	"iit", "nptel", "gate smashers", "freecodecamp", "the coding train",
	"cs50", "3blue1brown", "ted-ed",
	// Format phrases
	"explained by", "instructor", "professor explains", "lecture series",
	"chapter", "lesson", "module", "part 1", "part 2", "episode 1",
	"episode 2", "unit", "session", "week 1", "week 2", "introduction to",
	"fundamentals of", "basics of", "principles of", "understanding",
	"tutorial playlist", "beginner to advanced", "zero to hero",
	"bootcamp tutorial",
	// Certifications
	"exam prep", "certification", "interview preparation", "jee preparation",
	"neet preparation", "gate preparation", "ielts preparation",
	"toefl preparation", "upsc", "ssc", "bank po", "coding interview",
}

var eduKeywords = []string{
	"tutorial", "guide", "learn", "learning", "education", "educational",
	"training", "how to", "explained", "explanation", "basics", "beginner",
	"for beginners", "advanced", "masterclass", "deep dive",
	"complete course", "overview", "demonstration", "walkthrough", "study",
	"studying", "study with me", "revision", "concept", "topic",
	"definition", "theory", "experiment", "practice problems", "exercise",
	"example", "problem solving", "worksheet", "whiteboard", "chalkboard",
	"slides", "presentation", "teaching", "explaining", "discussion",
	"educator", "trainer", "tutor", "student", "classroom", "lesson",
	"homework", "assignment", "lab", "practical", "academic",
	"college notes", "revision notes", "exam solution",
	"previous year question", "mcq", "quiz", "test series", "mock test",
	"solution", "solved example",
}

var academicSubjects = []string{
	// Mathematics
	"mathematics", "math", "calculus", "algebra", "geometry", "trigonometry",
	"statistics", "probability", "arithmetic", "differentiation",
	"integration", "linear algebra", "matrix", "derivative", "limits",
	"graph theory", "discrete math", "number theory",
	// Science
	"physics", "chemistry", "biology", "anatomy", "physiology",
	"biochemistry", "genetics", "botany", "zoology", "microbiology",
	"organic chemistry", "inorganic chemistry", "thermodynamics",
	"quantum mechanics", "electromagnetism", "astronomy", "astrophysics",
	"geology", "meteorology", "climate science", "ecology",
	"environmental science", "earth science",
	// Computer science / programming
	"programming", "coding", "software engineering", "computer science",
	"algorithm", "data structure", "machine learning", "deep learning",
	"artificial intelligence", "neural networks", "data analysis",
	"data science", "python", "javascript", "java", "c++", "c language",
	"c#", "go", "rust", "html", "css", "react", "nodejs", "sql", "mongodb",
	"firebase", "flutter", "android development", "ios development",
	"web development", "frontend development", "backend development",
	"devops", "cloud computing", "aws", "azure", "docker", "kubernetes",
	"cybersecurity", "ethical hacking", "operating system", "networking",
	"compiler design", "dbms", "os concepts", "cn", "dsa", "oop",
	"software testing", "version control", "git", "github", "code review",
	// Engineering / technical
	"electrical engineering", "electronics", "mechanical engineering",
	"civil engineering", "chemical engineering", "industrial engineering",
	"robotics", "control systems", "signals and systems", "microprocessor",
	"circuit analysis", "fluid mechanics", "design of machine elements",
	"engineering drawing", "manufacturing process", "power systems",
	"embedded systems", "digital electronics", "vlsi",
	"communication systems",
	// Humanities & social sciences
	"history", "geography", "political science", "economics", "psychology",
	"philosophy", "sociology", "archaeology", "anthropology",
	"education theory", "linguistics", "literature", "grammar",
	"language learning", "english", "spanish", "french", "german",
	"chinese", "hindi", "translation", "writing skills", "poetry analysis",
	// Professional skills & careers
	"interview preparation", "resume writing", "career guidance",
	"public speaking", "communication skills", "presentation skills",
	"time management", "leadership", "entrepreneurship", "marketing",
	"business analysis", "project management", "pmp", "finance basics",
	"excel tutorial", "spreadsheet", "statistics for data science",
	"management studies", "econometrics",
	// Arts, design & creativity
	"art", "design", "drawing", "sketching", "animation", "3d modeling",
	"photoshop tutorial", "illustrator tutorial", "ui ux design",
	"architecture", "graphic design", "film studies", "storytelling",
	"music theory", "sound design", "music production", "editing tutorial",
	"color theory",
	// Exams, certifications & skills
	"jee", "neet", "upsc", "ssc", "bank po", "gate", "ielts", "toefl",
	"gre", "gmat", "sat", "act", "cat exam", "placement preparation",
	"aptitude", "reasoning", "logical reasoning", "quantitative aptitude",
	"english grammar", "vocabulary", "mock test", "sample paper",
	"previous year questions",
}

var strongNonEduIndicators = []string{
	// Music
	"song", "songs", "music", "music video", "official video",
	"official audio", "audio", "lyrics", "lyric video", "karaoke", "remix",
	"dj mix", "album", "track", "single", "mixtape", "rap", "hip hop",
	"pop music", "classical music", "cover song", "instrumental", "bgm",
	"theme song", "soundtrack", "ost", "video song", "love song",
	"romantic song", "devotional song", "bhajan", "worship song",
	"t-series", "zee music", "sony music", "tips official", "speed records",
	"yash raj films", "label", "record label", "official trailer song",
	// Entertainment & pop culture
	"vlog", "daily vlog", "travel vlog", "fun vlog", "reaction",
	"reaction video", "trailer", "teaser", "movie", "film", "cinema",
	"series", "episode", "season", "behind the scenes", "celebrity",
	"hollywood", "bollywood", "tollywood", "idol", "mv", "concert",
	"dance cover", "fan cam", "kpop", "bts", "blackpink", "taylor swift",
	"funny edit", "edit compilation",
	// Gaming & esports
	"gaming", "gameplay", "let's play", "playthrough", "speedrun",
	"live stream", "livestream", "esports", "tournament",
	"match highlights", "fortnite", "minecraft", "roblox", "pubg",
	"valorant", "gta", "call of duty", "apex legends", "csgo", "fifa",
	"pokemon", "league of legends", "mlbb", "bgmi",
	// Comedy, pranks & challenges
	"prank", "challenge", "try not to laugh", "funny moments",
	"fails compilation", "comedy", "standup", "skit", "parody", "spoof",
	"roast", "trolling", "memes", "meme", "shorts compilation",
	"viral video", "trending video",
	// Lifestyle & beauty
	"haul", "makeup", "beauty", "skincare", "fashion", "ootd", "outfit",
	"style tips", "unboxing", "review", "shopping", "routine",
	"morning routine", "night routine", "room tour", "house tour",
	"setup tour", "workspace tour", "transformation", "glow up",
	"weight loss", "gym motivation", "fitness challenge",
	// Finance clickbait
	"earn money", "make money fast", "side hustle", "crypto", "bitcoin",
	"nft", "dropshipping", "affiliate marketing", "millionaire mindset",
	"get rich quick", "trading strategy", "investment hack",
	// Tech reviews & casual
	"first look", "hands-on", "camera test", "benchmark", "speed test",
	"comparison", "leak", "rumor", "specs", "tech news", "iphone",
	"samsung", "android", "smartwatch", "gadget review", "product review",
	"vs", "versus",
	// Food & casual content
	"mukbang", "eating show", "food vlog", "street food",
	"restaurant review", "taste test", "snack review", "cook off",
	"baking vlog", "recipe hack", "dessert", "asmr",
	// Drama, gossip & misc
	"drama", "gossip", "controversy", "beef", "exposed", "rant", "scandal",
	"influencer drama", "tiktok", "instagram", "shorts", "short video",
	"viral clip", "trend",
	// Sports & highlight reels
	"boxing", "ufc", "mma", "fight highlights", "goals compilation",
	"cricket highlights", "football highlights", "nba highlights", "wwe",
	"race highlights", "sports news", "game highlights",
}

var softNonEdu = []string{
	"song", "music", "lyrics", "trailer", "movie", "film", "vlog", "prank",
	"challenge", "haul", "unboxing", "review", "reaction", "gaming",
	"gameplay", "pov", "travel", "apartment",
}

var clickbaitPhrases = []string{
	"you won't believe", "shocking", "must watch", "urgent",
	"breaking news", "exposed", "secret revealed", "truth behind",
	"real reason", "hidden truth",
}

var eduChannelPatterns = []string{
	"university", "academy", "institute", "education", "learning", "school",
	"college", "teacher", "professor", "tutor", "edu", "academic",
	"scholar", "official", "lectures",
}
