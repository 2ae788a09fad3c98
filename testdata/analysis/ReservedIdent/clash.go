package reservedident

const ABORTIF_CONDITION_WAS_MET = 0 // want `ABORTIF_CONDITION_WAS_MET is reserved for hard aborts`
