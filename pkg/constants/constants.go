package constants

// Canonical artifact filenames inside a registered version directory. The
// registry always stores under these names regardless of how the training
// step named its outputs.
const (
	ArtifactModel     = "model.joblib"
	ArtifactMetadata  = "model_metadata.json"
	ArtifactSignature = "model_signature.json"
	ArtifactMetrics   = "metrics.json"
)

// RequiredArtifacts is the complete bundle a version must supply to be
// registrable. A partially present bundle is rejected, never partially
// stored.
var RequiredArtifacts = []string{
	ArtifactModel,
	ArtifactMetadata,
	ArtifactSignature,
	ArtifactMetrics,
}

// ArtifactSourceCandidates maps each canonical name to the source filenames
// accepted from a training output directory, in preference order. Older
// training pipelines suffixed their outputs with _v1.
var ArtifactSourceCandidates = map[string][]string{
	ArtifactModel:     {"model_v1.joblib", "model.joblib"},
	ArtifactMetadata:  {"model_metadata_v1.json", "model_metadata.json"},
	ArtifactSignature: {"model_signature_v1.json", "model_signature.json"},
	ArtifactMetrics:   {"metrics_v1.json", "metrics.json"},
}

// Monitoring baseline files, copied alongside the bundle when a baseline
// directory is supplied at registration.
const BaselineDirName = "monitoring_baseline"

var BaselineFiles = []string{
	"feature_profile.json",
	"score_profile.json",
	"baseline_metadata.json",
}

// Registry-internal filenames and directories.
const (
	ManifestFileName     = "manifest.json"
	ChampionFileName     = "champion.json"
	RollbackDirName      = "rollback"
	RollbackFilePrefix   = "rollback_"
	RollbackTimeLayout   = "20060102_150405"
)

// Promoter identities recorded in the champion pointer and manifests.
const (
	PromotedByManual         = "manual"
	PromotedByAuto           = "auto"
	PromotedByRetrain        = "retrain_pipeline"
	PromotedByRollbackPrefix = "rollback:"
)

// Default locations, overridable through CLI flags and configuration.
const (
	DefaultRegistryDir  = "models/registry"
	DefaultArtifactsDir = "artifacts"
)

// DefaultTrainCommand is the training invocation used when none is
// configured.
var DefaultTrainCommand = []string{"python", "-m", "src.train"}
