package vocab

var (
	groups           = newEnum("group", "train", "dev", "eval")
	genders          = newEnum("gender", "male", "female", Undefined)
	purposes         = newEnum("purpose", "genuine", "spoof")
	attacks          = newEnum("attack", Undefined, "unknown", "spoof")
	phrases          = newEnum("phrase", codes("S", 10)...)
	environments     = newEnum("environment", codes("E", 6)...)
	playbackDevices  = newEnum("playback device", codes("P", 15)...)
	recordingDevices = newEnum("recording device", codes("R", 16)...)
)

// Group is the protocol subset a client or file belongs to.
type Group int

const (
	GroupTrain Group = iota
	GroupDev
	GroupEval
)

func (g Group) String() string { return groups.name(int(g)) }

// ParseGroup parses a group name.
func ParseGroup(s string) (Group, error) {
	i, err := groups.index(s)
	return Group(i), err
}

// GroupValues returns the valid group names.
func GroupValues() []string { return groups.Values() }

// Gender of a client. Undefined when the corpus does not disclose it.
type Gender int

const (
	GenderMale Gender = iota
	GenderFemale
	GenderUndefined
)

func (g Gender) String() string { return genders.name(int(g)) }

// ParseGender parses a gender name.
func ParseGender(s string) (Gender, error) {
	i, err := genders.index(s)
	return Gender(i), err
}

// GenderValues returns the valid gender names.
func GenderValues() []string { return genders.Values() }

// Purpose says whether a file is a genuine utterance or a spoof.
type Purpose int

const (
	PurposeGenuine Purpose = iota
	PurposeSpoof
)

func (p Purpose) String() string { return purposes.name(int(p)) }

// ParsePurpose parses a purpose name.
func ParsePurpose(s string) (Purpose, error) {
	i, err := purposes.index(s)
	return Purpose(i), err
}

// PurposeValues returns the valid purpose names.
func PurposeValues() []string { return purposes.Values() }

// AttackType sub-classifies spoofed files.
type AttackType int

const (
	AttackUndefined AttackType = iota
	AttackUnknown
	AttackSpoof
)

func (a AttackType) String() string { return attacks.name(int(a)) }

// ParseAttackType parses an attack type name.
func ParseAttackType(s string) (AttackType, error) {
	i, err := attacks.index(s)
	return AttackType(i), err
}

// AttackValues returns the valid attack type names.
func AttackValues() []string { return attacks.Values() }

// Phrase is the common phrase (S01..S10) read in a file.
type Phrase int

// PhraseUndefined is the zero Phrase.
const PhraseUndefined Phrase = 0

func (p Phrase) String() string { return phrases.name(int(p)) }

// ParsePhrase parses a phrase id such as "S03".
func ParsePhrase(s string) (Phrase, error) {
	i, err := phrases.index(s)
	return Phrase(i), err
}

// PhraseValues returns the valid phrase ids.
func PhraseValues() []string { return phrases.Values() }

// Environment is the recording environment id (E01..E06).
type Environment int

// EnvironmentUndefined is the zero Environment.
const EnvironmentUndefined Environment = 0

func (e Environment) String() string { return environments.name(int(e)) }

// ParseEnvironment parses an environment id. The "-" placeholder maps to
// EnvironmentUndefined.
func ParseEnvironment(s string) (Environment, error) {
	if s == NotApplicable {
		return EnvironmentUndefined, nil
	}
	i, err := environments.index(s)
	return Environment(i), err
}

// EnvironmentValues returns the valid environment ids.
func EnvironmentValues() []string { return environments.Values() }

// PlaybackDevice is the playback device id (P01..P15).
type PlaybackDevice int

// PlaybackUndefined is the zero PlaybackDevice.
const PlaybackUndefined PlaybackDevice = 0

func (p PlaybackDevice) String() string { return playbackDevices.name(int(p)) }

// ParsePlaybackDevice parses a playback device id. The "-" placeholder maps to
// PlaybackUndefined.
func ParsePlaybackDevice(s string) (PlaybackDevice, error) {
	if s == NotApplicable {
		return PlaybackUndefined, nil
	}
	i, err := playbackDevices.index(s)
	return PlaybackDevice(i), err
}

// PlaybackValues returns the valid playback device ids.
func PlaybackValues() []string { return playbackDevices.Values() }

// RecordingDevice is the recording device id (R01..R16).
type RecordingDevice int

// RecordingUndefined is the zero RecordingDevice.
const RecordingUndefined RecordingDevice = 0

func (r RecordingDevice) String() string { return recordingDevices.name(int(r)) }

// ParseRecordingDevice parses a recording device id. The "-" placeholder maps
// to RecordingUndefined.
func ParseRecordingDevice(s string) (RecordingDevice, error) {
	if s == NotApplicable {
		return RecordingUndefined, nil
	}
	i, err := recordingDevices.index(s)
	return RecordingDevice(i), err
}

// RecordingValues returns the valid recording device ids.
func RecordingValues() []string { return recordingDevices.Values() }
