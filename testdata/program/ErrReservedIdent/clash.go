package config

const ABORTIF_CONDITION_WAS_MET = 0
