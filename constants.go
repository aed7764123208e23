package audiocompare

// Default comparison parameters.
const (
	DefaultMaxLengthDifference   = 2.0    // seconds
	DefaultMinCorrelation        = 0.7    // Pearson coefficient
	DefaultLowpassCutoff         = 3000.0 // Hz
	DefaultShiftToleranceSeconds = 2.0    // seconds
	DefaultFrequency             = RateVoIP // Hz
)

// Common sample rates.
const (
	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000
)
