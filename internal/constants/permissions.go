package constants

import "os"

// DirPermStandard — права на создаваемые каталоги логов (owner rwx, group r-x).
const DirPermStandard os.FileMode = 0750
