package constant

// Banner is printed at the top of the root command's long help.
const Banner = `       _       _
 _ __ | |_ __ | | __ _ _   _  ___ _ __
| '_ \| | '_ \| |/ _' | | | |/ _ \ '__|
| |_) | | |_) | | (_| | |_| |  __/ |
| .__/|_| .__/|_|\__,_|\__, |\___|_|
|_|     |_|            |___/`
