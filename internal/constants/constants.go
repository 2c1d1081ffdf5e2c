package constants

const USER_AGENT = "rankedoverlay/1.0 (+https://github.com/rankedoverlay)"
