package registry

import "github.com/dshills/rtdcconfig/internal/config/value"

// RegisterDefaults registers the built-in RT-DC settings and scalar
// features.
func (r *Registry) RegisterDefaults() {
	for _, s := range metadataSettings {
		s.Group = GroupMetadata
		r.MustRegister(s)
	}
	for _, s := range analysisSettings {
		s.Group = GroupAnalysis
		r.MustRegister(s)
	}
	r.RegisterFeatures(scalarFeatures...)
}

var metadataSettings = []Setting{
	// Measurement run
	{Section: "experiment", Key: "date", Kind: value.KindString, Description: "Date of measurement ('YYYY-MM-DD')"},
	{Section: "experiment", Key: "event count", Kind: value.KindInt, Description: "Number of recorded events"},
	{Section: "experiment", Key: "run index", Kind: value.KindInt, Description: "Index of measurement run"},
	{Section: "experiment", Key: "run identifier", Kind: value.KindString, Description: "Unique measurement identifier"},
	{Section: "experiment", Key: "sample", Kind: value.KindString, Description: "Measured sample or user-defined reference"},
	{Section: "experiment", Key: "time", Kind: value.KindString, Description: "Start time of measurement ('HH:MM:SS[.S]')"},

	// Fluorescence detection
	{Section: "fluorescence", Key: "bit depth", Kind: value.KindInt, Description: "Trace bit depth"},
	{Section: "fluorescence", Key: "channel count", Kind: value.KindInt, Description: "Number of active channels"},
	{Section: "fluorescence", Key: "channel 1 name", Kind: value.KindString, Description: "FL1 description"},
	{Section: "fluorescence", Key: "channel 2 name", Kind: value.KindString, Description: "FL2 description"},
	{Section: "fluorescence", Key: "channel 3 name", Kind: value.KindString, Description: "FL3 description"},
	{Section: "fluorescence", Key: "channels installed", Kind: value.KindInt, Description: "Number of available channels"},
	{Section: "fluorescence", Key: "laser count", Kind: value.KindInt, Description: "Number of active lasers"},
	{Section: "fluorescence", Key: "laser 1 lambda", Kind: value.KindFloat, Description: "Laser 1 wavelength [nm]"},
	{Section: "fluorescence", Key: "laser 1 power", Kind: value.KindFloat, Description: "Laser 1 output power [%]"},
	{Section: "fluorescence", Key: "laser 2 lambda", Kind: value.KindFloat, Description: "Laser 2 wavelength [nm]"},
	{Section: "fluorescence", Key: "laser 2 power", Kind: value.KindFloat, Description: "Laser 2 output power [%]"},
	{Section: "fluorescence", Key: "laser 3 lambda", Kind: value.KindFloat, Description: "Laser 3 wavelength [nm]"},
	{Section: "fluorescence", Key: "laser 3 power", Kind: value.KindFloat, Description: "Laser 3 output power [%]"},
	{Section: "fluorescence", Key: "lasers installed", Kind: value.KindInt, Description: "Number of available lasers"},
	{Section: "fluorescence", Key: "sample rate", Kind: value.KindInt, Description: "Trace sample rate [Hz]"},
	{Section: "fluorescence", Key: "samples per event", Kind: value.KindInt, Description: "Samples per event"},
	{Section: "fluorescence", Key: "signal max", Kind: value.KindFloat, Description: "Upper voltage detection limit [V]"},
	{Section: "fluorescence", Key: "signal min", Kind: value.KindFloat, Description: "Lower voltage detection limit [V]"},
	{Section: "fluorescence", Key: "trace median", Kind: value.KindInt, Description: "Rolling median filter size for traces"},

	// Camera
	{Section: "imaging", Key: "flash device", Kind: value.KindString, Description: "Light source device type"},
	{Section: "imaging", Key: "flash duration", Kind: value.KindFloat, Description: "Light source flash duration [µs]"},
	{Section: "imaging", Key: "frame rate", Kind: value.KindFloat, Description: "Imaging frame rate [Hz]"},
	{Section: "imaging", Key: "pixel size", Kind: value.KindFloat, Description: "Pixel size [µm]"},
	{Section: "imaging", Key: "roi position x", Kind: value.KindInt, Description: "Image x coordinate on sensor [px]"},
	{Section: "imaging", Key: "roi position y", Kind: value.KindInt, Description: "Image y coordinate on sensor [px]"},
	{Section: "imaging", Key: "roi size x", Kind: value.KindInt, Description: "Image width [px]"},
	{Section: "imaging", Key: "roi size y", Kind: value.KindInt, Description: "Image height [px]"},

	// Real-time contour detection
	{Section: "online_contour", Key: "bin area min", Kind: value.KindInt, Description: "Minium pixel area of binary image event"},
	{Section: "online_contour", Key: "bin kernel", Kind: value.KindInt, Description: "Disk size for binary closing"},
	{Section: "online_contour", Key: "bin threshold", Kind: value.KindInt, Description: "Binary threshold for avg-bg-corrected image"},
	{Section: "online_contour", Key: "image blur", Kind: value.KindInt, Description: "Gaussian blur kernel size"},
	{Section: "online_contour", Key: "no absdiff", Kind: value.KindBool, Description: "Avoid OpenCV 'absdiff' for avg-bg-correction"},

	// Real-time filtering
	{Section: "online_filter", Key: "area_um max", Kind: value.KindFloat, Description: "Maximum area [µm²]"},
	{Section: "online_filter", Key: "area_um min", Kind: value.KindFloat, Description: "Minimum area [µm²]"},
	{Section: "online_filter", Key: "area_um,deform soft limit", Kind: value.KindBool, Description: "Soft limit, area_um-deform polygon"},
	{Section: "online_filter", Key: "aspect max", Kind: value.KindFloat, Description: "Maximum aspect ratio of bounding box"},
	{Section: "online_filter", Key: "aspect min", Kind: value.KindFloat, Description: "Minimum aspect ratio of bounding box"},
	{Section: "online_filter", Key: "deform max", Kind: value.KindFloat, Description: "Maximum deformation"},
	{Section: "online_filter", Key: "deform min", Kind: value.KindFloat, Description: "Minimum deformation"},
	{Section: "online_filter", Key: "target duration", Kind: value.KindFloat, Description: "Target measurement duration [min]"},
	{Section: "online_filter", Key: "target event count", Kind: value.KindInt, Description: "Target event count for online gating"},

	// Measurement setup
	{Section: "setup", Key: "channel width", Kind: value.KindFloat, Description: "Width of microfluidic channel [µm]"},
	{Section: "setup", Key: "chip identifier", Kind: value.KindString, Coerce: ToLowerString, Description: "Unique identifier of the chip used"},
	{Section: "setup", Key: "chip region", Kind: value.KindString, Coerce: ToLowerString, Description: "Imaged chip region (channel or reservoir)"},
	{Section: "setup", Key: "flow rate", Kind: value.KindFloat, Description: "Flow rate in channel [µL/s]"},
	{Section: "setup", Key: "flow rate sample", Kind: value.KindFloat, Description: "Sample flow rate [µL/s]"},
	{Section: "setup", Key: "flow rate sheath", Kind: value.KindFloat, Description: "Sheath flow rate [µL/s]"},
	{Section: "setup", Key: "identifier", Kind: value.KindString, Description: "Unique setup identifier"},
	{Section: "setup", Key: "medium", Kind: value.KindString, Description: "Medium used"},
	{Section: "setup", Key: "module composition", Kind: value.KindString, Description: "Comma-separated list of modules used"},
	{Section: "setup", Key: "software version", Kind: value.KindString, Description: "Acquisition software with version"},
	{Section: "setup", Key: "temperature", Kind: value.KindFloat, Description: "Mean chip temperature [°C]"},
	{Section: "setup", Key: "viscosity", Kind: value.KindFloat, Description: "Medium viscosity [Pa*s]"},
}

var analysisSettings = []Setting{
	{Section: "calculation", Key: "crosstalk fl12", Kind: value.KindFloat, Description: "Fluorescence crosstalk, channel 2 in 1"},
	{Section: "calculation", Key: "crosstalk fl13", Kind: value.KindFloat, Description: "Fluorescence crosstalk, channel 3 in 1"},
	{Section: "calculation", Key: "crosstalk fl21", Kind: value.KindFloat, Description: "Fluorescence crosstalk, channel 1 in 2"},
	{Section: "calculation", Key: "crosstalk fl23", Kind: value.KindFloat, Description: "Fluorescence crosstalk, channel 3 in 2"},
	{Section: "calculation", Key: "crosstalk fl31", Kind: value.KindFloat, Description: "Fluorescence crosstalk, channel 1 in 3"},
	{Section: "calculation", Key: "crosstalk fl32", Kind: value.KindFloat, Description: "Fluorescence crosstalk, channel 2 in 3"},
	{Section: "calculation", Key: "emodulus lut", Kind: value.KindString, Description: "Look-up table identifier"},
	{Section: "calculation", Key: "emodulus medium", Kind: value.KindString, Description: "Medium used (e.g. '0.49% MC-PBS')"},
	{Section: "calculation", Key: "emodulus temperature", Kind: value.KindFloat, Description: "Chip temperature [°C]"},
	{Section: "calculation", Key: "emodulus viscosity", Kind: value.KindFloat, Description: "Viscosity [Pa*s] if 'medium' unknown"},
	{Section: "calculation", Key: "emodulus viscosity model", Kind: value.KindString, Description: "Viscosity model for known media"},

	{Section: FilteringSection, Key: "enable filters", Kind: value.KindBool, Description: "Enable filtering"},
	{Section: FilteringSection, Key: "hierarchy parent", Kind: value.KindString, Description: "Hierarchy parent of the dataset"},
	{Section: FilteringSection, Key: "limit events", Kind: value.KindInt, Description: "Upper limit for number of filtered events"},
	{Section: FilteringSection, Key: "polygon filters", Kind: value.KindIntList, Description: "Polygon filter indices"},
	{Section: FilteringSection, Key: "remove invalid events", Kind: value.KindBool, Description: "Remove events with inf/nan values"},
}

// scalarFeatures are the per-event scalar quantities of the dataset format.
var scalarFeatures = []string{
	"area_cvx", "area_msd", "area_ratio", "area_um", "aspect",
	"bright_avg", "bright_bc_avg", "bright_bc_sd", "bright_perc_10", "bright_perc_90", "bright_sd",
	"circ", "deform", "emodulus",
	"fl1_area", "fl1_dist", "fl1_max", "fl1_max_ctc", "fl1_npks", "fl1_pos", "fl1_width",
	"fl2_area", "fl2_dist", "fl2_max", "fl2_max_ctc", "fl2_npks", "fl2_pos", "fl2_width",
	"fl3_area", "fl3_dist", "fl3_max", "fl3_max_ctc", "fl3_npks", "fl3_pos", "fl3_width",
	"frame", "index", "inert_ratio_cvx", "inert_ratio_prnc", "inert_ratio_raw",
	"nevents", "pc1", "pc2", "per_ratio", "pos_x", "pos_y",
	"size_x", "size_y", "temp", "temp_amb", "tilt", "time", "volume",
	"userdef0", "userdef1", "userdef2", "userdef3", "userdef4",
	"userdef5", "userdef6", "userdef7", "userdef8", "userdef9",
}
