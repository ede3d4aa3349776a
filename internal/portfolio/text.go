package portfolio

var (
	Headline = `Confusion: It's a Feature, Not a Bug`

	BioIntro = `Confusion isn't a bug, it's a feature of programming. If you're not confused, you're not learning,
	or you're just very good at pretending you're not confused during a late-night debugging session.`

	BioRole = `As a Second-Year Computer Science Student at Cebu Institute of Technology - University (CIT-U),
	I specialize in bridging technical problem-solving with organizational oversight, currently serving as a
	Project Analytics Officer for the Google Developer Group on campus.`

	Aspirations = `Proficient Full-Stack Web Developer & Data Science dabbler.`

	FunFacts = `Loves walking/hiking, watching funny reels, and competitive eating (I need to start!).
	Painting is a passion, even if I'm not great at it.`

	ContactBlurb = `You can reach out to discuss CS, Project Analytics, the hackathon, or competitive eating!`

	MapCaption = `The path represents the route from CIT-U to Paseo Arcenas/Sta. Ana Labangon, then on to the
	National Museum of the Philippines - Cebu, and back towards CIT-U.`
)
